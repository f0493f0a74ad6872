package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

var encodings = map[string]encoding.Encoding{
	"utf8":     unicode.UTF8,
	"utf-8":    unicode.UTF8,
	"latin1":   charmap.ISO8859_1,
	"cp1252":   charmap.Windows1252,
	"shiftjis": japanese.ShiftJIS,
	"sjis":     japanese.ShiftJIS,
}

func Names() []string {
	return []string{"utf8", "latin1", "cp1252", "shiftjis"}
}

func Lookup(name string) (encoding.Encoding, error) {
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown charset %q, want one of %v", name, Names())
	}
	return enc, nil
}

// Decode turns a meta text payload into a string. Payloads are cut at the
// first NUL. Valid UTF-8 is passed through untouched whatever enc is.
func Decode(enc encoding.Encoding, b []byte) string {
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	if enc == nil || utf8.Valid(b) {
		return string(b)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "?")
	}
	return string(out)
}
