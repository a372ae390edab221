package newick

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemOpen
	itemClose
	itemComma
	itemLabel
	itemLength
	itemEnd
)

const (
	eof          = 0
	terminal     = ';'
	delimiter    = ','
	listStart    = '('
	listEnd      = ')'
	quote        = '\''
	lengthStart  = ':'
	commentStart = '['
	commentEnd   = ']'
)

// unquoteBanned are the characters that end an unquoted label.
const unquoteBanned = " \t\n\r()[]':;,"

type stateFn func(lx *lexer) stateFn

// lexer splits Newick input into items. Its states run until an item is
// emitted, so that reading a tree never needs more input than the tree.
type lexer struct {
	input *bufio.Reader
	text  []rune
	line  int
	width int
	last  rune
	state stateFn
	items chan item
}

type item struct {
	typ  itemType
	val  string
	line int
}

func lex(input io.Reader) *lexer {
	return &lexer{
		input: bufio.NewReader(input),
		line:  1,
		state: lexTree,
		items: make(chan item, 2),
	}
}

// nextItem returns the next item. Once lexing has stopped, it keeps
// returning itemEOF.
func (lx *lexer) nextItem() item {
	for {
		select {
		case item := <-lx.items:
			return item
		default:
			if lx.state == nil {
				return item{itemEOF, "", lx.line}
			}
			lx.state = lx.state(lx)
		}
	}
}

func (lx *lexer) emit(typ itemType) {
	lx.items <- item{typ, string(lx.text), lx.line}
	lx.text = lx.text[:0]
}

func (lx *lexer) next() rune {
	r, w, err := lx.input.ReadRune()
	if err != nil {
		lx.width = 0
		return eof
	}
	lx.width, lx.last = w, r
	if r == '\n' {
		lx.line++
	}
	return r
}

// backup steps back one rune. Can be called only once per call of next.
func (lx *lexer) backup() {
	if lx.width == 0 {
		return
	}
	lx.input.UnreadRune()
	lx.width = 0
	if lx.last == '\n' {
		lx.line--
	}
}

// keep appends r to the text of the pending item.
func (lx *lexer) keep(r rune) {
	lx.text = append(lx.text, r)
}

// errorf stops all lexing by emitting an error and returning `nil`.
func (lx *lexer) errorf(format string, values ...interface{}) stateFn {
	lx.items <- item{itemError, fmt.Sprintf(format, values...), lx.line}
	return nil
}

func lexTree(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case isBlank(r) || isNL(r):
		return lexTree
	case r == listStart:
		lx.emit(itemOpen)
	case r == listEnd:
		lx.emit(itemClose)
	case r == delimiter:
		lx.emit(itemComma)
	case r == terminal:
		lx.emit(itemEnd)
	case r == lengthStart:
		return lexLengthStart
	case r == commentStart:
		return lexComment
	case r == quote:
		return lexQuoted
	case r == commentEnd:
		return lx.errorf("Unexpected %q outside of a comment.", r)
	case r == eof:
		lx.emit(itemEOF)
		return nil
	default:
		lx.backup()
		return lexLabel
	}
	return lexTree
}

func lexLabel(lx *lexer) stateFn {
	r := lx.next()
	if r == eof || strings.ContainsRune(unquoteBanned, r) {
		lx.backup()
		lx.emit(itemLabel)
		return lexTree
	}
	lx.keep(r)
	return lexLabel
}

// lexQuoted reads a label in single quotes, where '' stands for a quote.
func lexQuoted(lx *lexer) stateFn {
	r := lx.next()
	switch r {
	case eof:
		return lx.errorf("Unexpected EOF in a quoted label.")
	case quote:
		if lx.next() == quote {
			lx.keep(quote)
			return lexQuoted
		}
		lx.backup()
		lx.emit(itemLabel)
		return lexTree
	}
	lx.keep(r)
	return lexQuoted
}

func lexComment(lx *lexer) stateFn {
	switch lx.next() {
	case eof:
		return lx.errorf("Unexpected EOF in a comment.")
	case commentEnd:
		return lexTree
	}
	return lexComment
}

func lexLengthStart(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case isBlank(r):
		return lexLengthStart
	case r == '-' || r == '+':
		lx.keep(r)
		return lexLengthNum
	}
	lx.backup()
	return lexLengthNum
}

// lengthEnd emits the length if r ends it.
func (lx *lexer) lengthEnd(r rune) bool {
	if !isLengthEnd(r) || len(lx.text) == 0 {
		return false
	}
	lx.backup()
	lx.emit(itemLength)
	return true
}

func lexLengthNum(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case lx.lengthEnd(r):
		return lexTree
	case r == '.':
		lx.keep(r)
		return lexLengthDecimal
	case isExponent(r) && len(lx.text) > 0:
		lx.keep(r)
		return lexLengthExponentStart
	case isDigit(r):
		lx.keep(r)
		return lexLengthNum
	}
	return lx.errorf("Expected a '.' or a digit in a branch length, but "+
		"got %q instead.", r)
}

func lexLengthDecimal(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case lx.lengthEnd(r):
		return lexTree
	case isExponent(r):
		lx.keep(r)
		return lexLengthExponentStart
	case isDigit(r):
		lx.keep(r)
		return lexLengthDecimal
	}
	return lx.errorf("Expected a digit in a branch length, but got %q "+
		"instead.", r)
}

// lexLengthExponentStart consumes the optional sign of an exponent, as in
// "1.5e-05".
func lexLengthExponentStart(lx *lexer) stateFn {
	r := lx.next()
	if r == '-' || r == '+' || isDigit(r) {
		lx.keep(r)
		return lexLengthExponent
	}
	return lx.errorf("Expected a sign or a digit in an exponent, but "+
		"got %q instead.", r)
}

func lexLengthExponent(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case lx.lengthEnd(r):
		return lexTree
	case isDigit(r):
		lx.keep(r)
		return lexLengthExponent
	}
	return lx.errorf("Expected a digit in an exponent, but got %q "+
		"instead.", r)
}

func isLengthEnd(r rune) bool {
	return r == delimiter || r == listEnd || r == terminal || r == eof ||
		r == commentStart || isBlank(r) || isNL(r)
}

func isBlank(r rune) bool {
	return r == '\t' || r == ' '
}

func isNL(r rune) bool {
	return r == '\n' || r == '\r'
}

func isExponent(r rune) bool {
	return r == 'e' || r == 'E'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (itype itemType) String() string {
	switch itype {
	case itemError:
		return "error"
	case itemEOF:
		return "EOF"
	case itemOpen:
		return "'('"
	case itemClose:
		return "')'"
	case itemComma:
		return "','"
	case itemLabel:
		return "label"
	case itemLength:
		return "branch length"
	case itemEnd:
		return "';'"
	}
	return fmt.Sprintf("itemType(%d)", int(itype))
}
