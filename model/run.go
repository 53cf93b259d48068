package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSize is the font size in points used when a run has no explicit size.
const DefaultSize = 12.0

// RGB represents a 24-bit text color.
type RGB struct {
	R, G, B uint8
}

// Black is the fallback text color.
var Black = RGB{}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "rrggbb" or "#rrggbb". It reports false for anything else,
// including the OOXML "auto" value.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// StyledRun is a span of text with fully resolved formatting.
type StyledRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Color     RGB
	Size      float64 // points
}

// RunsText concatenates the text of runs in order.
func RunsText(runs []StyledRun) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Alignment represents horizontal paragraph alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlignment maps an OOXML justification value to an Alignment.
// Unknown and justified values fall back to left.
func ParseAlignment(jc string) Alignment {
	switch strings.ToLower(jc) {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}
