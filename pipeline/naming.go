package pipeline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameBytes keeps generated file names under common filesystem limits.
const maxNameBytes = 200

// SanitizeName replaces every rune that is not a letter or digit with '_'.
// Names longer than 200 bytes are cut at a rune boundary.
func SanitizeName(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}

	name := sb.String()
	if len(name) > maxNameBytes {
		cut := maxNameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}

// FileName returns the output file name for the seq'th section.
func FileName(seq int, headerText string) string {
	return fmt.Sprintf("section_%d_%s.pdf", seq, SanitizeName(headerText))
}
