// Package utils converts the loosely typed values returned by map-scanned
// rows into the concrete types the domain packages work with.
package utils
