/*
Package sequence provides the basic sequence types of biotite: alphabets and
sequences of symbols drawn from them.

A sequence never stores its symbols directly. Instead, each symbol is encoded
as its index in the sequence's alphabet, which keeps nucleotide and protein
sequences compact and makes symbol frequency calculations trivial. Letter
alphabets (where every symbol is a single byte) are the only ones that can be
written to FASTA files.

Nucleotide sequences come in two flavors: unambiguous (ACGT) and ambiguous
(the IUPAC codes ACGTRYWSMKHBVDN). NewNucleotide picks the unambiguous
alphabet whenever possible.
*/
package sequence
