// Package waitlist reads and writes the yearly WAIT tables of the
// waiting-list store. Room, department and doctor names are stored as raw
// EUC-KR octets and are written as inline byte literals.
package waitlist
