package extract

import (
	"strings"

	"github.com/tsawler/docsplit/docx"
	"github.com/tsawler/docsplit/model"
)

// StyleSource supplies the colors set by named styles. Colors are hex
// strings such as "FF0000".
type StyleSource interface {
	CharacterColor(styleID string) (string, bool)
	ParagraphColor(styleID string) (string, bool)
}

// ResolveColor returns the first non-nil color in priority order: explicit
// run color, run style color, paragraph style color. It returns black when
// all three are nil.
func ResolveColor(explicit, runStyle, paraStyle *model.RGB) model.RGB {
	for _, c := range []*model.RGB{explicit, runStyle, paraStyle} {
		if c != nil {
			return *c
		}
	}
	return model.Black
}

// Runs converts a paragraph's runs to styled runs in document order.
// Runs that are empty or whitespace-only are dropped.
func Runs(p docx.Paragraph, styles StyleSource) []model.StyledRun {
	var paraColor *model.RGB
	if styles != nil {
		if hex, ok := styles.ParagraphColor(p.StyleID); ok {
			paraColor = parseColor(hex)
		}
	}

	var out []model.StyledRun
	for _, run := range p.Runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		out = append(out, styledRun(run, styles, paraColor))
	}
	return out
}

func styledRun(run docx.Run, styles StyleSource, paraColor *model.RGB) model.StyledRun {
	var runStyleColor *model.RGB
	if styles != nil && run.StyleID != "" {
		if hex, ok := styles.CharacterColor(run.StyleID); ok {
			runStyleColor = parseColor(hex)
		}
	}

	size := run.Size
	if size <= 0 {
		size = model.DefaultSize
	}

	return model.StyledRun{
		Text:      run.Text,
		Bold:      run.Bold.On(),
		Italic:    run.Italic.On(),
		Underline: run.Underline.On(),
		Color:     ResolveColor(parseColor(run.Color), runStyleColor, paraColor),
		Size:      size,
	}
}

// parseColor returns nil for empty or malformed colors.
func parseColor(hex string) *model.RGB {
	if hex == "" {
		return nil
	}
	c, ok := model.ParseHex(hex)
	if !ok {
		return nil
	}
	return &c
}
