// Package dataset decodes tabular data into records that drive scene joins.
//
// CSV and TSV files use their first row as the header and keep every value as
// a string. JSON files hold an array of objects. YAML files hold a sequence of
// mappings. The format is taken from the file or object extension.
package dataset
