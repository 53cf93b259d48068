// Package markup converts styled runs to the inline markup used for table
// cells and paragraph layout, and parses that markup back into runs.
//
// The markup is a small HTML subset: <b>, <i>, <u>, <font color size> and
// <br/>. Build nests tags in a fixed order so that every run is
// self-contained:
//
//	<b><i><font color="#ff0000" size="14">text</font></i></b>
package markup

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/docsplit/model"
)

// LineBreak separates paragraphs joined into one markup string.
const LineBreak = "<br/>"

// Build returns the markup of runs concatenated in order.
func Build(runs []model.StyledRun) string {
	var sb strings.Builder
	for _, r := range runs {
		writeRun(&sb, r)
	}
	return sb.String()
}

// Run returns the markup of a single run.
func Run(r model.StyledRun) string {
	var sb strings.Builder
	writeRun(&sb, r)
	return sb.String()
}

// Join concatenates markup fragments separated by line breaks, skipping
// empty fragments.
func Join(fragments []string) string {
	kept := fragments[:0:0]
	for _, f := range fragments {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, LineBreak)
}

func writeRun(sb *strings.Builder, r model.StyledRun) {
	var closers []string
	if r.Bold {
		sb.WriteString("<b>")
		closers = append(closers, "</b>")
	}
	if r.Italic {
		sb.WriteString("<i>")
		closers = append(closers, "</i>")
	}
	if r.Underline {
		sb.WriteString("<u>")
		closers = append(closers, "</u>")
	}

	sb.WriteString(`<font color="`)
	sb.WriteString(r.Color.Hex())
	sb.WriteString(`" size="`)
	sb.WriteString(formatSize(r.Size))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(r.Text))
	sb.WriteString("</font>")

	for i := len(closers) - 1; i >= 0; i-- {
		sb.WriteString(closers[i])
	}
}

// formatSize renders a point size without trailing zeros ("12", "10.5").
func formatSize(size float64) string {
	if size <= 0 {
		size = model.DefaultSize
	}
	return strconv.FormatFloat(size, 'f', -1, 64)
}
