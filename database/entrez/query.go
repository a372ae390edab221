// Package entrez searches and downloads records from the NCBI Entrez
// databases through the E-utilities web service.
package entrez

import (
	"fmt"
	"strings"
)

// Query is an Entrez search term.
type Query interface {
	String() string
}

// SimpleQuery is a single search term, optionally restricted to a field.
type SimpleQuery struct {
	Term  string
	Field string
}

// fields are the search fields accepted by the Entrez databases.
var fields = map[string]bool{
	"Accession": true, "All Fields": true, "Author": true,
	"EC/RN Number": true, "Feature Key": true, "Filter": true,
	"Gene Name": true, "Genome Project": true, "Issue": true,
	"Journal": true, "Keyword": true, "Modification Date": true,
	"Molecular Weight": true, "Organism": true, "Page Number": true,
	"Primary Accession": true, "Properties": true,
	"Protein Name": true, "Publication Date": true, "SeqID String": true,
	"Sequence Length": true, "Substance Name": true, "Text Word": true,
	"Title": true, "Volume": true,
	// abbreviations
	"ACCN": true, "ALL": true, "AU": true, "AUTH": true, "ECNO": true,
	"FKEY": true, "FILT": true, "SB": true, "GENE": true, "ISS": true,
	"JOUR": true, "KYWD": true, "MDAT": true, "MOLWT": true, "ORGN": true,
	"PAGE": true, "PACC": true, "PORGN": true, "PROP": true, "PROT": true,
	"PDAT": true, "SQID": true, "SLEN": true, "SUBS": true, "WORD": true,
	"TI": true, "TITL": true, "VOL": true,
}

// NewSimpleQuery creates a query for term in the field given. An empty field
// searches all fields. The term must not contain characters with a meaning in
// the query syntax.
func NewSimpleQuery(term, field string) (*SimpleQuery, error) {
	if field != "" && !fields[field] {
		return nil, fmt.Errorf("Unknown field '%s'.", field)
	}
	if strings.ContainsAny(term, `"[]()`) {
		return nil, fmt.Errorf("Term '%s' contains invalid characters.", term)
	}
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("Empty search term.")
	}
	return &SimpleQuery{Term: term, Field: field}, nil
}

// String renders the query, quoting terms that contain spaces.
func (q *SimpleQuery) String() string {
	term := q.Term
	if strings.Contains(term, " ") {
		term = `"` + term + `"`
	}
	if q.Field == "" {
		return term
	}
	return term + "[" + q.Field + "]"
}

// CompositeQuery combines two queries with a boolean operator.
type CompositeQuery struct {
	Operator string
	Left     Query
	Right    Query
}

func (q *CompositeQuery) String() string {
	return fmt.Sprintf("(%s) %s (%s)", q.Left, q.Operator, q.Right)
}

// And matches records matched by both queries.
func And(left, right Query) *CompositeQuery {
	return &CompositeQuery{"AND", left, right}
}

// Or matches records matched by any of the two queries.
func Or(left, right Query) *CompositeQuery {
	return &CompositeQuery{"OR", left, right}
}

// Not matches records matched by left, but not by right.
func Not(left, right Query) *CompositeQuery {
	return &CompositeQuery{"NOT", left, right}
}
