// Package section groups a document's body blocks into heading-delimited
// sections.
//
// The [Walker] is a two-state machine. Until the first allowed heading it
// discards everything; afterwards each allowed heading closes the open
// section and starts a new one, and all other blocks become content of the
// open section in document order.
package section

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsawler/docsplit/docx"
	"github.com/tsawler/docsplit/extract"
	"github.com/tsawler/docsplit/markup"
	"github.com/tsawler/docsplit/model"
)

// Source is a parsed document the walker can read.
type Source interface {
	Blocks() []docx.Block
	Styles() *docx.StyleResolver
	Part(relID string) ([]byte, error)
}

// Options controls which headings open sections.
type Options struct {
	// Levels lists the heading levels that start a section.
	Levels []int

	// KeepOtherHeadings adds headings outside Levels to the open section
	// as plain paragraphs. By default they are dropped.
	KeepOtherHeadings bool
}

// Walker groups blocks into sections. A Walker holds no per-document state
// and may be reused.
type Walker struct {
	allowed map[int]bool
	keep    bool
	images  extract.ImageSink
}

// NewWalker returns a walker for opts. Pictures are written to images; when
// images is nil they are skipped.
func NewWalker(opts Options, images extract.ImageSink) *Walker {
	allowed := make(map[int]bool, len(opts.Levels))
	for _, l := range opts.Levels {
		allowed[l] = true
	}
	return &Walker{allowed: allowed, keep: opts.KeepOtherHeadings, images: images}
}

// state is the accumulator for one walk.
type state struct {
	sections []model.Section
	current  *model.Section
}

func (s *state) open(h model.Header) {
	s.flush()
	s.current = &model.Section{Header: h}
}

func (s *state) flush() {
	if s.current != nil {
		s.sections = append(s.sections, *s.current)
		s.current = nil
	}
}

func (s *state) add(item model.ContentItem) {
	s.current.Content = append(s.current.Content, item)
}

// Walk returns the sections of src in document order.
func (w *Walker) Walk(src Source) []model.Section {
	styles := src.Styles()
	st := &state{}

	for _, block := range src.Blocks() {
		switch block.Kind {
		case docx.BlockParagraph:
			w.paragraph(st, *block.Paragraph, styles, src)
		case docx.BlockTable:
			if st.current == nil {
				continue
			}
			st.add(TableItem(block.Table, styles))
		}
	}

	st.flush()
	slog.Debug("document walked", "sections", len(st.sections))
	return st.sections
}

func (w *Walker) paragraph(st *state, p docx.Paragraph, styles *docx.StyleResolver, parts extract.PartSource) {
	name := styles.ParagraphStyleName(p.StyleID)

	if level, ok := HeadingLevel(name); ok {
		if w.allowed[level] {
			st.open(model.Header{
				Runs:      extract.Runs(p, styles),
				Alignment: model.ParseAlignment(p.Justification),
				Level:     level,
			})
			return
		}
		if !w.keep {
			return
		}
		if st.current != nil {
			if runs := extract.Runs(p, styles); len(runs) > 0 {
				st.add(&model.Paragraph{Runs: runs})
			}
		}
		return
	}

	if st.current == nil {
		return
	}

	runs := extract.Runs(p, styles)
	switch lt := docx.ListTypeOf(name); lt {
	case docx.ListTypeOrdered, docx.ListTypeUnordered:
		st.add(&model.ListItem{
			Ordered: lt == docx.ListTypeOrdered,
			Index:   len(st.current.Content) + 1,
			Runs:    runs,
		})
	default:
		if len(runs) > 0 {
			st.add(&model.Paragraph{Runs: runs})
		}
	}

	if w.images == nil {
		return
	}
	for _, path := range extract.Images(p, parts, w.images) {
		st.add(&model.Image{Path: path})
	}
}

// HeadingLevel parses a "Heading N" style name. It reports false for other
// names, including "Heading" followed by anything that is not an integer.
func HeadingLevel(styleName string) (int, bool) {
	rest, ok := strings.CutPrefix(styleName, "Heading ")
	if !ok {
		return 0, false
	}
	level, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return level, true
}

// TableItem converts a parsed table to a Table content item. Each cell
// holds its non-empty paragraphs' markup joined by line breaks. Columns
// covered by a horizontal span and cells continuing a vertical merge are
// empty. Without a grid, column widths come from the cells' own widths.
func TableItem(t *docx.ParsedTable, styles extract.StyleSource) *model.Table {
	item := &model.Table{ColWidths: append([]float64(nil), t.ColWidths...)}
	if len(item.ColWidths) == 0 {
		item.ColWidths = cellWidths(t)
	}
	for _, row := range t.Rows {
		if !row.IsHeader {
			break
		}
		item.HeaderRows++
	}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			text := ""
			if !cell.IsMergedContinuation {
				text = cellMarkup(cell, styles)
			}
			cells = append(cells, text)
			for i := 1; i < cell.ColSpan; i++ {
				cells = append(cells, "")
			}
		}
		item.Rows = append(item.Rows, cells)
	}
	return item
}

func cellMarkup(cell docx.ParsedTableCell, styles extract.StyleSource) string {
	parts := make([]string, 0, len(cell.Paragraphs))
	for _, p := range cell.Paragraphs {
		parts = append(parts, markup.Build(extract.Runs(p, styles)))
	}
	return markup.Join(parts)
}

// cellWidths derives column widths from the first row whose cells all carry
// an absolute width. A spanning cell's width is shared by its columns.
func cellWidths(t *docx.ParsedTable) []float64 {
	for _, row := range t.Rows {
		var widths []float64
		for _, cell := range row.Cells {
			if cell.Width <= 0 {
				widths = nil
				break
			}
			span := max(cell.ColSpan, 1)
			for range span {
				widths = append(widths, cell.Width/float64(span))
			}
		}
		if widths != nil {
			return widths
		}
	}
	return nil
}
