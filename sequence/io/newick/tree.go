package newick

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tree corresponds to any value representable in a Newick format. Each
// tree value corresponds to a single node.
type Tree struct {
	// All children of this node, which may be empty.
	Children []Tree

	// The label of this node. If it's empty, then this node does
	// not have a name.
	Label string

	// The branch length of this node corresponding to the distance between
	// it and its parent node. If it's `nil`, then no distance exists.
	Length *float64
}

// IsLeaf returns true if the node has no children.
func (tree *Tree) IsLeaf() bool {
	return len(tree.Children) == 0
}

// Leaves returns the leaf nodes of the tree from left to right.
func (tree *Tree) Leaves() []*Tree {
	var leaves []*Tree
	var walk func(t *Tree)
	walk = func(t *Tree) {
		if t.IsLeaf() {
			leaves = append(leaves, t)
			return
		}
		for i := range t.Children {
			walk(&t.Children[i])
		}
	}
	walk(tree)
	return leaves
}

// LeafIndices interprets the leaf labels as integers, which is how guide
// trees of alignment programs refer to input sequences. The indices are
// returned from left to right.
func (tree *Tree) LeafIndices() ([]int, error) {
	leaves := tree.Leaves()
	indices := make([]int, len(leaves))
	for i, leaf := range leaves {
		n, err := strconv.Atoi(leaf.Label)
		if err != nil {
			return nil, fmt.Errorf("Leaf label '%s' is not an index.",
				leaf.Label)
		}
		indices[i] = n
	}
	return indices, nil
}

// Newick returns the tree in Newick format, terminated by ';'. Branch lengths
// are written with the shortest representation that reads back to the same
// value. Labels that cannot be written unquoted are put in single quotes.
func (tree *Tree) Newick() string {
	buf := new(bytes.Buffer)
	tree.write(buf)
	buf.WriteByte(terminal)
	return buf.String()
}

func (tree *Tree) write(buf *bytes.Buffer) {
	if !tree.IsLeaf() {
		buf.WriteByte(listStart)
		for i := range tree.Children {
			if i > 0 {
				buf.WriteByte(delimiter)
			}
			tree.Children[i].write(buf)
		}
		buf.WriteByte(listEnd)
	}
	buf.WriteString(quoteLabel(tree.Label))
	if tree.Length != nil {
		buf.WriteByte(lengthStart)
		buf.WriteString(strconv.FormatFloat(*tree.Length, 'g', -1, 64))
	}
}

func quoteLabel(label string) string {
	if !strings.ContainsAny(label, unquoteBanned) {
		return label
	}
	return "'" + strings.ReplaceAll(label, "'", "''") + "'"
}

// A Writer writes trees in Newick format, one per line.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w}
}

// WriteTree writes a single tree followed by a new line.
func (w *Writer) WriteTree(tree *Tree) error {
	_, err := fmt.Fprintln(w.w, tree.Newick())
	return err
}

// String recursively converts a tree to a string, with whitespace indenting
// to indicate depth.
func (tree *Tree) String() string {
	buf := new(bytes.Buffer)
	pf := func(format string, v ...interface{}) {
		fmt.Fprintf(buf, format, v...)
	}

	var out func(t *Tree, depth int)
	out = func(t *Tree, depth int) {
		name, length := t.Label, ""
		if len(name) == 0 {
			name = "N/A"
		}
		if t.Length != nil {
			length = fmt.Sprintf(" (%f)", *t.Length)
		}
		pf("%s%s%s\n", strings.Repeat("  ", depth), name, length)
		for i := range t.Children {
			out(&t.Children[i], depth+1)
		}
	}
	out(tree, 0)
	return buf.String()
}
