// Package person manages the patient reference table of the person store.
//
// PERSON stores names, sex, relation and memo fields as raw EUC-KR octets
// in columns without a declared charset. Reads decode them explicitly and
// writes embed them as inline byte literals. New patients receive their
// person and family codes from the single-row LAST counter, which is read
// with a row lock, incremented and written back in one transaction.
//
// # Routes
//
//	GET    /api/persons                  paginated list
//	GET    /api/persons/search           by name and/or birth date
//	GET    /api/persons/search-id/:id    by search id
//	GET    /api/persons/:pcode
//	POST   /api/persons
//	PUT    /api/persons/:pcode
//	DELETE /api/persons/:pcode
package person
