package fasta

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultColumns is the line length used when a File is written.
const DefaultColumns = 80

// File is an in memory FASTA file: an ordered mapping from headers to
// sequence strings. Headers are unique. The zero value is an empty file
// that is written with DefaultColumns.
type File struct {
	// Columns is the number of sequence characters per line when the file
	// is written. Zero means DefaultColumns, a negative value disables
	// wrapping.
	Columns int

	entries []Entry
	index   map[string]int
}

// NewFile returns an empty FASTA file.
func NewFile() *File {
	return &File{Columns: DefaultColumns}
}

// Read reads all entries from r into a new File. A header that occurs more
// than once is an error.
func Read(r io.Reader) (*File, error) {
	fr := NewReader(r)
	f := NewFile()
	for {
		entry, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if _, ok := f.index[entry.Header]; ok {
			return nil, fmt.Errorf("Header '%s' occurs more than once.",
				entry.Header)
		}
		f.Set(entry.Header, string(entry.Sequence))
	}
	return f, nil
}

// ReadFile reads the FASTA file at path. Files ending in ".gz" are
// decompressed.
func ReadFile(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	var r io.Reader = fp
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fp)
		if err != nil {
			return nil, fmt.Errorf("Could not read '%s': %s", path, err)
		}
		defer gz.Close()
		r = gz
	}
	f, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("Could not read '%s': %s", path, err)
	}
	return f, nil
}

// Write writes all entries of the file in order.
func (f *File) Write(w io.Writer) error {
	fw := NewWriter(w)
	fw.Columns = f.Columns
	if fw.Columns == 0 {
		fw.Columns = DefaultColumns
	}
	return fw.WriteAll(f.entries)
}

// WriteFile writes the file to path. Paths ending in ".gz" are compressed.
func (f *File) WriteFile(path string) (err error) {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".gz") {
		return f.Write(fp)
	}
	gz := gzip.NewWriter(fp)
	if err := f.Write(gz); err != nil {
		return err
	}
	return gz.Close()
}

// Len returns the number of entries.
func (f *File) Len() int {
	return len(f.entries)
}

// Headers returns the headers in file order.
func (f *File) Headers() []string {
	headers := make([]string, len(f.entries))
	for i, e := range f.entries {
		headers[i] = e.Header
	}
	return headers
}

// Entries returns the entries in file order. The returned slice must not be
// modified.
func (f *File) Entries() []Entry {
	return f.entries
}

// Get returns the sequence string of the entry with the given header.
func (f *File) Get(header string) (string, bool) {
	i, ok := f.index[header]
	if !ok {
		return "", false
	}
	return string(f.entries[i].Sequence), true
}

// Set sets the sequence string of the entry with the given header. An
// existing entry keeps its position, a new entry is appended.
func (f *File) Set(header, seq string) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[header]; ok {
		f.entries[i].Sequence = []byte(seq)
		return
	}
	f.index[header] = len(f.entries)
	f.entries = append(f.entries, Entry{Header: header, Sequence: []byte(seq)})
}

// Delete removes the entry with the given header and reports whether it
// existed.
func (f *File) Delete(header string) bool {
	i, ok := f.index[header]
	if !ok {
		return false
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	delete(f.index, header)
	for j := i; j < len(f.entries); j++ {
		f.index[f.entries[j].Header] = j
	}
	return true
}

func (f *File) String() string {
	var b strings.Builder
	f.Write(&b)
	return b.String()
}
