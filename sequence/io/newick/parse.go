package newick

import (
	"fmt"
	"io"
	"strconv"
)

// Reader corresponds to the state necessary to read trees from Newick
// formatted input.
type Reader struct {
	lx     *lexer
	peeked *item

	// leaf, if not nil, is called for every leaf as soon as it is parsed.
	leaf func(t *Tree) error
}

// NewReader returns a reader ready for reading trees from `r`.
func NewReader(r io.Reader) *Reader {
	return &Reader{lx: lex(r)}
}

func (r *Reader) next() item {
	if it := r.peeked; it != nil {
		r.peeked = nil
		return *it
	}
	return r.lx.nextItem()
}

func (r *Reader) unread(it item) {
	r.peeked = &it
}

// ReadAll returns all of the Newick trees in the source input. The first
// error that occurs is returned with no trees. The error is never `io.EOF`.
func (r *Reader) ReadAll() ([]*Tree, error) {
	trees := make([]*Tree, 0)
	for {
		tree, err := r.ReadTree()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// ReadTree reads a single tree from the source input. If the end of the
// input is reached, then a nil `Tree` is returned with `io.EOF` as the error.
// The ';' after the last tree of the input may be omitted.
func (r *Reader) ReadTree() (*Tree, error) {
	first := r.next()
	switch first.typ {
	case itemEOF:
		return nil, io.EOF
	case itemEnd:
		return &Tree{}, nil
	}
	r.unread(first)

	tree, err := r.node()
	if err != nil {
		return nil, err
	}
	if end := r.next(); end.typ != itemEnd && end.typ != itemEOF {
		return nil, expectErr(end, fmt.Sprintf("a terminal '%c'", terminal))
	}
	return tree, nil
}

// node parses a subtree: an optional descendant list, then an optional label
// and an optional branch length.
func (r *Reader) node() (*Tree, error) {
	t := &Tree{}
	it := r.next()
	if it.typ == itemOpen {
	CHILDREN:
		for {
			child, err := r.node()
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, *child)

			sep := r.next()
			switch sep.typ {
			case itemComma:
			case itemClose:
				break CHILDREN
			default:
				return nil, expectErr(sep, "',' or ')'")
			}
		}
		it = r.next()
	}
	if it.typ == itemLabel {
		t.Label = it.val
		it = r.next()
	}
	if it.typ == itemLength {
		length, err := strconv.ParseFloat(it.val, 64)
		if err != nil {
			return nil, errf(it.line, "Invalid branch length '%s'.", it.val)
		}
		t.Length = &length
		it = r.next()
	}
	r.unread(it)

	if t.IsLeaf() && r.leaf != nil && it.typ != itemError {
		if err := r.leaf(t); err != nil {
			return nil, errf(it.line, "%s", err)
		}
	}
	return t, nil
}

// ReadGuideTree reads a single guide tree of an alignment of n sequences,
// as written by Clustal Omega. Every leaf must be labelled with the index of
// a sequence (0 to n-1) and every index must occur once. The indices are
// returned from left to right.
func ReadGuideTree(input io.Reader, n int) (*Tree, []int, error) {
	var indices []int
	seen := make([]bool, n)
	r := NewReader(input)
	r.leaf = func(t *Tree) error {
		i, err := strconv.Atoi(t.Label)
		switch {
		case err != nil:
			return fmt.Errorf("Leaf label '%s' is not a sequence index.",
				t.Label)
		case i < 0 || i >= n:
			return fmt.Errorf("Sequence index %d is out of range for %d "+
				"sequences.", i, n)
		case seen[i]:
			return fmt.Errorf("Sequence index %d occurs more than once.", i)
		}
		seen[i] = true
		indices = append(indices, i)
		return nil
	}

	tree, err := r.ReadTree()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("No guide tree found.")
	} else if err != nil {
		return nil, nil, err
	}
	if len(indices) != n {
		return nil, nil, fmt.Errorf("The guide tree has %d leaves, but %d "+
			"sequences were aligned.", len(indices), n)
	}
	return tree, indices, nil
}

func expectErr(it item, expected string) error {
	if it.typ == itemError {
		return errf(it.line, "%s", it.val)
	}
	return errf(it.line, "Unexpected %s, expected %s.", it.typ, expected)
}

func errf(line int, format string, v ...interface{}) error {
	return fmt.Errorf("Error on line %d: %s", line, fmt.Sprintf(format, v...))
}
