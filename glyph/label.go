package glyph

import (
	"fmt"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// Placeholder is shown for codes without a printable character.
const Placeholder = "·"

// Label returns the character a code stands for when displayed: printable
// ASCII for 32-126 and Windows-1252 for 128-255.
func Label(code int) string {
	switch {
	case code >= 32 && code < 127:
		return string(rune(code))
	case code >= 128 && code < NumGlyphs:
		r := charmap.Windows1252.DecodeByte(byte(code))
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			return Placeholder
		}
		return string(r)
	}
	return Placeholder
}

// Describe returns a short description of a code such as "#65 'A'".
func Describe(code int) string {
	return fmt.Sprintf("#%d '%s'", code, Label(code))
}
