package docx

import "strings"

// Toggle is a tri-state run property: unset properties inherit.
type Toggle int

const (
	ToggleUnset Toggle = iota
	ToggleOn
	ToggleOff
)

// On reports whether the toggle is explicitly on. Unset counts as off.
func (t Toggle) On() bool {
	return t == ToggleOn
}

// toggleOf converts a toggle element to a Toggle. Presence without a val
// means on.
func toggleOf(b boolXML) Toggle {
	if b.XMLName.Local == "" {
		return ToggleUnset
	}
	switch strings.ToLower(b.Val) {
	case "", "1", "true", "on":
		return ToggleOn
	default:
		return ToggleOff
	}
}

// underlineOf converts <w:u> to a Toggle; val="none" is explicitly off.
func underlineOf(u underlineXML) Toggle {
	if u.XMLName.Local == "" {
		return ToggleUnset
	}
	switch strings.ToLower(u.Val) {
	case "none", "0", "false":
		return ToggleOff
	default:
		return ToggleOn
	}
}

// Run is an inline text run with its direct formatting.
type Run struct {
	Text      string
	StyleID   string // character style (rStyle)
	Bold      Toggle
	Italic    Toggle
	Underline Toggle
	Color     string  // explicit hex color, "" if unset or auto
	Size      float64 // explicit size in points, 0 if unset

	// ImageRefs holds the relationship IDs of pictures drawn in the run,
	// in encounter order.
	ImageRefs []string
}

// Paragraph is a body or table-cell paragraph.
type Paragraph struct {
	StyleID       string
	Justification string // left, center, right, both; "" if not set directly
	Runs          []Run
}

// Text returns the paragraph's text.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// ImageRefs returns the relationship IDs of all pictures in the paragraph.
func (p Paragraph) ImageRefs() []string {
	var refs []string
	for _, r := range p.Runs {
		refs = append(refs, r.ImageRefs...)
	}
	return refs
}

// newParagraph converts a decoded paragraph into its public form.
func newParagraph(p paragraphXML) Paragraph {
	para := Paragraph{
		StyleID:       p.Properties.Style.Val,
		Justification: p.Properties.Justification.Val,
		Runs:          make([]Run, 0, len(p.Runs)),
	}
	for _, r := range p.Runs {
		para.Runs = append(para.Runs, newRun(r))
	}
	return para
}

// newRun converts a decoded run into its public form.
func newRun(r runXML) Run {
	props := r.Properties
	run := Run{
		Text:      r.Text,
		StyleID:   props.Style.Val,
		Bold:      toggleOf(props.Bold),
		Italic:    toggleOf(props.Italic),
		Underline: underlineOf(props.Underline),
		Color:     normalizeColor(props.Color.Val),
	}
	if props.FontSize.Val != "" {
		run.Size = parseHalfPoints(props.FontSize.Val)
	}
	for _, d := range r.Drawings {
		if b := d.blip(); b != nil && b.Embed != "" {
			run.ImageRefs = append(run.ImageRefs, b.Embed)
		}
	}
	return run
}

// BlockKind identifies a top-level body block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTable
)

// Block is a top-level body element. Exactly one of Paragraph and Table is set.
type Block struct {
	Kind      BlockKind
	Paragraph *Paragraph
	Table     *ParsedTable
}
