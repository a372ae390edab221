package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// An Entry corresponds to an entry in a FASTA file. That is, it is a tuple
// of a single line header and a sequence over multiple lines concatenated
// into a single slice of bytes.
type Entry struct {
	Header   string
	Sequence []byte
}

// Output is a string in FASTA format, with the sequence wrapped at 60
// columns.
func (e Entry) String() string {
	return e.StringCols(60)
}

// StringCols returns the FASTA string corresponding to this entry with the
// sequence wrapped at the number of columns given.
//
// If cols is <= 0, then no wrapping is done.
func (e Entry) StringCols(cols int) string {
	if cols <= 0 || len(e.Sequence) == 0 {
		return fmt.Sprintf(">%s\n%s", e.Header, string(e.Sequence))
	}

	wrapped := make([]string, 1+((len(e.Sequence)-1)/cols))
	for i := range wrapped {
		start := cols * i
		end := start + cols
		if end > len(e.Sequence) {
			end = len(e.Sequence)
		}
		wrapped[i] = string(e.Sequence[start:end])
	}
	return fmt.Sprintf(">%s\n%s", e.Header, strings.Join(wrapped, "\n"))
}

func (e Entry) isNull() bool {
	return len(e.Header) == 0 && e.Sequence == nil
}

// A Reader reads entries from FASTA encoded input.
//
// If TrustSequences is true, then sequence data will not be checked to make
// sure that it only contains valid characters. By default, TrustSequences is
// false.
type Reader struct {
	// When set to true, the sequences will not be checked for errors.
	// This may be set at any time.
	TrustSequences bool
	buf            *bufio.Reader
	line           int
	nextHeader     []byte
	sawHeader      bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		TrustSequences: false,
		buf:            bufio.NewReader(r),
		line:           1,
		nextHeader:     nil,
	}
}

// ReadAll will read all entries in the FASTA input and return them as a
// slice. If an error is encountered, processing is stopped, and the error is
// returned.
func (r *Reader) ReadAll() ([]Entry, error) {
	entries := make([]Entry, 0, 100)
	for {
		entry, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Read will read the next entry in the FASTA input.
//
// The only characters allowed in the sequence section are a-z, A-Z, *, -, _
// and '.'. Any other character results in an error. Lower case letters are
// translated to upper case.
//
// Blank lines, leading and trailing whitespace are always ignored (regardless
// of where they are). Lines starting with ';' before the first header are
// treated as comments.
//
// It is NOT safe to call this function from multiple goroutines.
func (r *Reader) Read() (Entry, error) {
	return r.read(TranslateNormal)
}

func (r *Reader) read(translate Translator) (Entry, error) {
	entry, err := r.ReadEntry(translate)
	if !entry.isNull() {
		if err != nil && err != io.EOF {
			return Entry{}, fmt.Errorf("Error on line %d: %s", r.line, err)
		}
		return entry, nil
	}
	if err == io.EOF {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("Error on line %d: %s", r.line, err)
	}
	return entry, nil
}

// ReadEntry is exported for use in other packages that read FASTA-like
// files. The 'translate' function is used when sequences are checked for
// valid characters.
//
// If you're just reading FASTA files, this method SHOULD NOT be used.
func (r *Reader) ReadEntry(translate Translator) (Entry, error) {
	entry := Entry{}
	seenHeader := false

	// The header of this entry may have been consumed by the previous call.
	if r.nextHeader != nil {
		entry.Header = trimHeader(r.nextHeader)
		r.nextHeader = nil
		seenHeader = true
	}
	for {
		line, err := r.buf.ReadBytes('\n')
		if err == io.EOF {
			if len(line) == 0 {
				return entry, io.EOF
			}
		} else if err != nil {
			return Entry{}, err
		}
		line = bytes.TrimSpace(line)

		if len(line) == 0 {
			r.line++
			continue
		}
		if !seenHeader {
			if line[0] == ';' && !r.sawHeader {
				r.line++
				continue
			}
			if line[0] != '>' {
				return Entry{}, fmt.Errorf("Expected '>', got '%c'.", line[0])
			}
			entry.Header = trimHeader(line)
			seenHeader = true
			r.sawHeader = true

			r.line++
			continue
		} else if line[0] == '>' {
			r.nextHeader = line

			r.line++
			return entry, nil
		}

		if entry.Sequence == nil {
			entry.Sequence = make([]byte, 0, 50)
		}
		if !r.TrustSequences {
			for i, b := range line {
				bNew, ok := translate(b)
				if !ok {
					return Entry{},
						fmt.Errorf("Invalid character '%c' on line %d.",
							b, r.line)
				}
				line[i] = bNew
			}
		}

		// The bytes are copied, so line can be reused by the buffer.
		entry.Sequence = append(entry.Sequence, line...)

		r.line++
		if err == io.EOF {
			return entry, io.EOF
		}
	}
}

// A Translator is a function that accepts a single character, checks whether
// it's valid, and optionally maps it to a new character.
type Translator func(b byte) (byte, bool)

// TranslateNormal is the default translator for regular (and aligned) FASTA
// files.
func TranslateNormal(b byte) (byte, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		b -= 'a' - 'A'
	case b >= 'A' && b <= 'Z':
	case b == '*', b == '-', b == '_', b == '.':
	default:
		return 0, false
	}
	return b, true
}

func trimHeader(line []byte) string {
	return string(bytes.TrimSpace(bytes.TrimLeft(line, ">")))
}

// A Writer writes entries to a FASTA encoded file.
//
// The header text is never wrapped.
type Writer struct {
	// The number of columns to wrap a sequence at. By default, this
	// is set to 60. A value <= 0 will result in no wrapping.
	Columns int
	buf     *bufio.Writer
}

// NewWriter creates a new FASTA writer that can write FASTA entries to
// an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Columns: 60,
		buf:     bufio.NewWriter(w),
	}
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Write writes a single FASTA entry to the underlying io.Writer.
//
// You may need to call Flush in order for the changes to be written.
func (w *Writer) Write(entry Entry) error {
	if strings.ContainsAny(entry.Header, "\n\r") {
		return fmt.Errorf("Header '%s' contains a line break.", entry.Header)
	}
	s := fmt.Sprintf("%s\n", entry.StringCols(w.Columns))
	_, err := w.buf.WriteString(s)
	return err
}

// WriteAll writes a slice of FASTA entries to the underyling io.Writer, and
// calls Flush.
func (w *Writer) WriteAll(entries []Entry) error {
	for _, entry := range entries {
		if err := w.Write(entry); err != nil {
			return err
		}
	}
	return w.Flush()
}
