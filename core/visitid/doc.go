// Package visitid derives the identifiers stored on a waiting-list entry.
//
// Each entry carries a 14 digit reservation timestamp (YYYYMMDDHHMMSS) and a
// canonical date identifier (YYYY-MM-DD). The calendar part always comes from
// the visit date; only the time of day comes from the clock, so a patient
// booked for tomorrow still gets tomorrow's date in both identifiers.
package visitid
