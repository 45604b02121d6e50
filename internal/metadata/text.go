package metadata

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText turns an ASCII tag payload into a Go string.
//
// The EXIF standard says ASCII, but cameras and editors routinely write
// Latin-1 (owner names, copyright symbols). Invalid UTF-8 is therefore
// decoded as ISO-8859-1, which maps every byte to a rune.
func decodeText(b []byte) string {
	s := string(b)
	if !utf8.ValidString(s) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().String(s); err == nil {
			s = decoded
		}
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
