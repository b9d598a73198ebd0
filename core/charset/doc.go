// Package charset bridges native Go strings and the legacy EUC-KR byte
// representation used by the clinic databases.
//
// Two kinds of legacy columns exist side by side:
//
//   - Transparent columns declare a character set. The server transcodes at the
//     connection boundary, values arrive as ordinary strings and the bridge is a
//     no-op for them.
//   - Opaque columns declare no character set and hold raw octets. The
//     application encodes and decodes explicitly and embeds values into statement
//     text as inline byte literals (X'...'), never as bound parameters.
//
// Which mode applies is a static property of each column and is kept in a
// hand-maintained table (see ModeOf), so the bridge itself stays pure and
// testable without a store connection.
//
// # Usage
//
//	raw := charset.Encode("제1진료실")
//	sql := "INSERT INTO WAIT2026 (ROOMNM) VALUES (" + charset.Literal(raw) + ")"
//
//	name := charset.Decode(row.PName) // []byte or string
package charset
