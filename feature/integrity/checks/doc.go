// Package checks implements the individual integrity checks: storage folder
// structure, dataset formats, and the scene table schema.
package checks
