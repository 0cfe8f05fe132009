// Package utils provides loose value conversion for dataset fields and query
// parameters, where values arrive as strings, JSON numbers or YAML scalars.
package utils
