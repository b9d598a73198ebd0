package charset

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
)

// ErrEncodingFailure reports text outside the EUC-KR repertoire.
// Callers treat it as a degrade, not a fatal error.
var ErrEncodingFailure = errors.New("text is outside the EUC-KR repertoire")

// Encode converts text to EUC-KR. Runes outside the repertoire are replaced
// with the encoding's substitution byte. Empty input yields nil.
func Encode(text string) []byte {
	if text == "" {
		return nil
	}
	out, err := encoding.ReplaceUnsupported(korean.EUCKR.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return nil
	}
	return out
}

// EncodeStrict converts text to EUC-KR and fails when any rune is not representable.
// The returned bytes are always the lossy encoding so callers may still store them.
func EncodeStrict(text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}
	if _, err := korean.EUCKR.NewEncoder().Bytes([]byte(text)); err != nil {
		return Encode(text), fmt.Errorf("%w: %q", ErrEncodingFailure, text)
	}
	return Encode(text), nil
}

// Decode turns a column value into text. Strings are returned unchanged because
// the transparent path has already decoded them; byte slices are decoded from EUC-KR.
func Decode(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case []byte:
		return decodeBytes(val)
	case *[]byte:
		if val == nil {
			return ""
		}
		return decodeBytes(*val)
	case sql.RawBytes:
		return decodeBytes(val)
	case sql.NullString:
		return val.String
	default:
		return fmt.Sprintf("%v", val)
	}
}

func decodeBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := korean.EUCKR.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// Literal renders raw bytes as an inline hexadecimal literal for statement text.
func Literal(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

// LiteralText encodes text and renders it as an inline literal.
func LiteralText(text string) string {
	return Literal(Encode(text))
}
