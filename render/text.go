package render

import (
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/docsplit/model"
)

const fontFamily = "Helvetica"

// encode converts UTF-8 text to the cp1252 bytes the core fonts expect.
// Text is NFC-normalised first so decomposed accents map to single code
// points. Runes with no cp1252 form become '?'.
func encode(s string) string {
	s = norm.NFC.String(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			sb.WriteByte(' ')
		case r == '\r':
		case r < utf8.RuneSelf:
			sb.WriteByte(byte(r))
		default:
			if b, ok := charmap.Windows1252.EncodeRune(r); ok {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('?')
			}
		}
	}
	return sb.String()
}

// fontStyle returns the gofpdf style string for a run.
func fontStyle(run model.StyledRun) string {
	style := ""
	if run.Bold {
		style += "B"
	}
	if run.Italic {
		style += "I"
	}
	if run.Underline {
		style += "U"
	}
	return style
}

func setFont(pdf *gofpdf.Fpdf, run model.StyledRun) {
	size := run.Size
	if size <= 0 {
		size = model.DefaultSize
	}
	pdf.SetFont(fontFamily, fontStyle(run), size)
	pdf.SetTextColor(int(run.Color.R), int(run.Color.G), int(run.Color.B))
}

// fragment is a word or a space run measured in its own font.
type fragment struct {
	text  string // cp1252
	style model.StyledRun
	width float64
	space bool
}

// line is one laid-out line of fragments.
type line struct {
	frags  []fragment
	width  float64
	height float64
}

// splitPieces splits cp1252 text into words, space runs and "\n".
func splitPieces(s string) []string {
	var pieces []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\n':
			if start < i {
				pieces = append(pieces, s[start:i])
			}
			pieces = append(pieces, "\n")
			start = i + 1
		case i > start && (s[i] == ' ') != (s[i-1] == ' '):
			pieces = append(pieces, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		pieces = append(pieces, s[start:])
	}
	return pieces
}

// layout breaks runs into lines no wider than maxWidth. Line height is the
// largest font size on the line times spacing.
func layout(pdf *gofpdf.Fpdf, runs []model.StyledRun, maxWidth, spacing float64) []line {
	var lines []line
	cur := line{}
	lastSize := model.DefaultSize

	flush := func() {
		for n := len(cur.frags); n > 0 && cur.frags[n-1].space; n-- {
			cur.width -= cur.frags[n-1].width
			cur.frags = cur.frags[:n-1]
		}
		size := 0.0
		for _, f := range cur.frags {
			if f.style.Size > size {
				size = f.style.Size
			}
		}
		if size == 0 {
			size = lastSize
		}
		cur.height = size * spacing
		lines = append(lines, cur)
		cur = line{}
	}

	for _, run := range runs {
		if run.Size <= 0 {
			run.Size = model.DefaultSize
		}
		lastSize = run.Size
		setFont(pdf, run)
		style := run
		style.Text = ""

		for _, piece := range splitPieces(encode(run.Text)) {
			if piece == "\n" {
				flush()
				continue
			}
			space := piece[0] == ' '
			if space && len(cur.frags) == 0 {
				continue
			}
			w := pdf.GetStringWidth(piece)
			if !space && len(cur.frags) > 0 && cur.width+w > maxWidth {
				flush()
			}
			if !space && w > maxWidth {
				for _, chunk := range splitToWidth(pdf, piece, maxWidth) {
					if len(cur.frags) > 0 {
						flush()
					}
					cw := pdf.GetStringWidth(chunk)
					cur.frags = append(cur.frags, fragment{text: chunk, style: style, width: cw})
					cur.width += cw
				}
				continue
			}
			cur.frags = append(cur.frags, fragment{text: piece, style: style, width: w, space: space})
			cur.width += w
		}
	}
	if len(cur.frags) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitToWidth hard-breaks a word wider than maxWidth. The current font
// must already be set.
func splitToWidth(pdf *gofpdf.Fpdf, word string, maxWidth float64) []string {
	var chunks []string
	start := 0
	for i := 1; i <= len(word); i++ {
		if pdf.GetStringWidth(word[start:i]) > maxWidth && i-1 > start {
			chunks = append(chunks, word[start:i-1])
			start = i - 1
		}
	}
	return append(chunks, word[start:])
}

// linesHeight sums the heights of lines.
func linesHeight(lines []line) float64 {
	h := 0.0
	for _, l := range lines {
		h += l.height
	}
	return h
}

// drawLine draws l with its top-left at (x, y) inside a box of the given
// width. Consecutive fragments with the same style are drawn as one cell.
func drawLine(pdf *gofpdf.Fpdf, l line, x, y, width float64, align model.Alignment) {
	switch align {
	case model.AlignCenter:
		x += (width - l.width) / 2
	case model.AlignRight:
		x += width - l.width
	}

	for i := 0; i < len(l.frags); {
		seg := l.frags[i]
		text, w := seg.text, seg.width
		j := i + 1
		for ; j < len(l.frags) && l.frags[j].style == seg.style; j++ {
			text += l.frags[j].text
			w += l.frags[j].width
		}

		setFont(pdf, seg.style)
		pdf.SetXY(x, y)
		pdf.CellFormat(w, l.height, text, "", 0, "LB", false, 0, "")
		x += w
		i = j
	}
}
