// Package render lays out one section as a PDF document.
//
// Pages are US Letter with one-inch margins. The header comes first, then
// each content item in order separated by a fixed gap. Text is laid out
// from inline markup so that bold, italic, underline, color and size
// survive on a per-run basis.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/tsawler/docsplit/markup"
	"github.com/tsawler/docsplit/model"
)

const (
	pageMargin = 72.0

	bodySize    = 12.0
	lineSpacing = 14.0 / 12.0

	blockGap    = 12.0
	listItemGap = 8.0

	cellPaddingX  = 5.0
	cellPaddingY  = 3.0
	gridLineWidth = 0.5
	gridGrey      = 128
)

// Creator is written into the PDF metadata of every rendered document.
const Creator = "docsplit"

// headingSize returns the minimum header font size for a heading level.
func headingSize(level int) float64 {
	switch level {
	case 2:
		return 14
	case 3:
		return 12
	default:
		return 18
	}
}

// Renderer converts sections to PDF. It holds no per-document state and is
// safe for concurrent use.
type Renderer struct {
	meta model.Metadata
}

// NewRenderer returns a renderer that copies meta's author and subject
// into each PDF. Each document's title is its header text.
func NewRenderer(meta model.Metadata) *Renderer {
	return &Renderer{meta: meta}
}

// Render writes sec as a PDF at path. No file is created when layout
// fails.
func (r *Renderer) Render(sec model.Section, path string) error {
	var buf bytes.Buffer
	if err := r.Write(sec, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// Write renders sec as a PDF to w.
func (r *Renderer) Write(sec model.Section, w io.Writer) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCellMargin(0)

	pdf.SetTitle(sec.Header.Text(), true)
	if r.meta.Author != "" {
		pdf.SetAuthor(r.meta.Author, true)
	}
	if r.meta.Subject != "" {
		pdf.SetSubject(r.meta.Subject, true)
	}
	pdf.SetCreator(Creator, true)

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	pg := &page{
		pdf:    pdf,
		left:   pageMargin,
		top:    pageMargin,
		width:  pageW - 2*pageMargin,
		bottom: pageH - pageMargin,
		y:      pageMargin,
	}

	pg.header(sec.Header)
	for i, item := range sec.Content {
		switch it := item.(type) {
		case *model.Paragraph:
			pg.text(markup.Build(it.Runs), model.AlignLeft)
			pg.gap(blockGap)
		case *model.ListItem:
			pg.text(listPrefix(it)+markup.Build(it.Runs), model.AlignLeft)
			pg.gap(listItemGap)
		case *model.Table:
			pg.table(it)
			pg.gap(blockGap)
		case *model.Image:
			if err := pg.image(it.Path, fmt.Sprintf("image%d", i)); err != nil {
				pg.text(markup.Run(model.StyledRun{
					Text: fmt.Sprintf("[Error displaying image: %v]", err),
					Size: bodySize,
				}), model.AlignLeft)
			}
			pg.gap(blockGap)
		}
		if pdf.Err() {
			return fmt.Errorf("rendering item %d: %w", i+1, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// listPrefix returns the bullet or ordinal markup for a list item.
func listPrefix(li *model.ListItem) string {
	text := "• "
	if li.Ordered {
		text = fmt.Sprintf("%d. ", li.Index)
	}
	return markup.Run(model.StyledRun{Text: text, Size: bodySize})
}

// page tracks the write position on the current page.
type page struct {
	pdf    *gofpdf.Fpdf
	left   float64
	top    float64
	width  float64
	bottom float64
	y      float64
}

// ensure starts a new page when h does not fit below the current
// position, reporting whether it did. A block taller than a whole page is
// placed at the top of a fresh page.
func (p *page) ensure(h float64) bool {
	if p.y+h > p.bottom && p.y > p.top {
		p.newPage()
		return true
	}
	return false
}

func (p *page) newPage() {
	p.pdf.AddPage()
	p.y = p.top
}

// gap advances by h. The page break, if one is needed, is left to the
// next block so a section never ends on a blank page.
func (p *page) gap(h float64) {
	p.y = min(p.y+h, p.bottom)
}

// header draws the section header bold, at least at its level's heading
// size.
func (p *page) header(h model.Header) {
	minSize := headingSize(h.Level)
	runs := make([]model.StyledRun, len(h.Runs))
	for i, run := range h.Runs {
		run.Bold = true
		if run.Size < minSize {
			run.Size = minSize
		}
		runs[i] = run
	}
	p.text(markup.Build(runs), h.Alignment)
	p.gap(blockGap)
}

// text lays out markup across the full frame width, breaking pages
// between lines.
func (p *page) text(m string, align model.Alignment) {
	for _, l := range layout(p.pdf, markup.Parse(m), p.width, lineSpacing) {
		p.ensure(l.height)
		drawLine(p.pdf, l, p.left, p.y, p.width, align)
		p.y += l.height
	}
}

// image draws the image at path centred in the frame.
func (p *page) image(path, name string) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	w, h := FitImage(img.width, img.height)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.png))
	if p.pdf.Err() {
		err := p.pdf.Error()
		p.pdf.ClearError()
		return err
	}

	p.ensure(h)
	x := p.left + (p.width-w)/2
	p.pdf.ImageOptions(name, x, p.y, w, h, false, opts, 0, "")
	p.y += h
	return nil
}
