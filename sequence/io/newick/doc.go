/*
Package newick provides facilities for reading and writing trees in the
Newick format. The format used is roughly equivalent to the conventions
established here:
http://evolution.genetics.washington.edu/phylip/newick_doc.html, including
single quoted labels and comments in square brackets, which are skipped.
Underscores in unquoted labels are kept as they are.

Guide trees written by Clustal Omega use this format, with sequence indices
as leaf labels. ReadGuideTree checks those labels while parsing.
*/
package newick
