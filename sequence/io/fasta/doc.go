/*
Package fasta provides routines for reading and writing FASTA files, and for
converting their entries into sequences and alignments.

There are two levels. Reader, Writer, AlignedReader and AlignedWriter stream
entries (a header and the raw sequence bytes) and check that every sequence
character is valid: a-z, A-Z, *, -, _ and '.'. All lower case letters are
translated to their upper case equivalent.

File holds a whole FASTA file in memory as an ordered mapping from headers to
sequence strings. GetSequence, GetSequences, GetAlignment and their Set
counterparts convert between a File and the types of the sequence and align
packages. When a sequence string is converted, its type is detected: it
becomes an unambiguous nucleotide sequence if possible, otherwise a protein
sequence, otherwise an ambiguous nucleotide sequence.

The format used is the one described by NCBI:
http://blast.ncbi.nlm.nih.gov/blastcgihelp.shtml
*/
package fasta
