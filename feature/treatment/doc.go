// Package treatment reads and writes the yearly MTR tables of the
// treatment-log store. Text columns in these tables declare a charset, so
// values are bound as ordinary parameters and the connection transcodes them.
package treatment
