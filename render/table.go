package render

import (
	"github.com/tsawler/docsplit/markup"
	"github.com/tsawler/docsplit/model"
)

// ColumnWidths returns the widths in points of a table's columns within a
// frame of the given width. Source grid widths are used when they cover
// every column, scaled down if they overflow the frame; otherwise the
// frame is split evenly.
func ColumnWidths(t *model.Table, frame float64) []float64 {
	cols := t.ColCount()
	if cols == 0 {
		return nil
	}

	widths := make([]float64, cols)
	if len(t.ColWidths) >= cols {
		total := 0.0
		ok := true
		for i := 0; i < cols; i++ {
			if t.ColWidths[i] <= 0 {
				ok = false
				break
			}
			widths[i] = t.ColWidths[i]
			total += widths[i]
		}
		if ok {
			if total > frame {
				for i := range widths {
					widths[i] *= frame / total
				}
			}
			return widths
		}
	}

	for i := range widths {
		widths[i] = frame / float64(cols)
	}
	return widths
}

// row is a laid out table row. cells holds one line slice per column.
type row struct {
	cells  [][]line
	height float64 // including padding
}

// table draws t as a grid with grey borders. Cell text is top aligned.
// Rows that fit on a page are never split; taller rows continue on the
// next page. Leading header rows are repeated after every page break
// unless they would fill half a page.
func (p *page) table(t *model.Table) {
	widths := ColumnWidths(t, p.width)
	if widths == nil {
		return
	}

	rows := make([]row, len(t.Rows))
	for i, cells := range t.Rows {
		rows[i] = p.layoutRow(cells, widths)
	}

	header := rows[:min(t.HeaderRows, len(rows))]
	headerH := 0.0
	for _, r := range header {
		headerH += r.height
	}
	repeat := len(header) > 0 && headerH < (p.bottom-p.top)/2

	for i, r := range rows {
		onBreak := func() {}
		if repeat && i >= len(header) {
			onBreak = func() {
				for _, h := range header {
					p.drawCells(h.cells, widths, h.height)
				}
			}
		}
		p.drawRow(r, widths, onBreak)
	}
}

func (p *page) layoutRow(cells []string, widths []float64) row {
	r := row{cells: make([][]line, len(widths))}
	for c := range widths {
		if c < len(cells) && cells[c] != "" {
			r.cells[c] = layout(p.pdf, markup.Parse(cells[c]), widths[c]-2*cellPaddingX, lineSpacing)
		}
		if h := linesHeight(r.cells[c]); h > r.height {
			r.height = h
		}
	}
	if r.height == 0 {
		r.height = bodySize * lineSpacing
	}
	r.height += 2 * cellPaddingY
	return r
}

// drawRow draws r, calling onBreak after each page break it causes.
func (p *page) drawRow(r row, widths []float64, onBreak func()) {
	if r.height <= p.bottom-p.top {
		if p.ensure(r.height) {
			onBreak()
		}
		p.drawCells(r.cells, widths, r.height)
		return
	}

	rest, fresh := r.cells, p.y == p.top
	for {
		head, tail, h := splitCells(rest, p.bottom-p.y-2*cellPaddingY, fresh)
		if head != nil {
			p.drawCells(head, widths, h+2*cellPaddingY)
			if tail == nil {
				return
			}
			rest = tail
		}
		p.newPage()
		onBreak()
		fresh = true
	}
}

// splitCells takes from each cell the lines that fit in avail. head is nil
// when no line fits; tail is nil when every line was taken. On a fresh page
// (force) at least one line of each cell is taken so progress is
// always made.
func splitCells(cells [][]line, avail float64, force bool) (head, tail [][]line, h float64) {
	head = make([][]line, len(cells))
	tail = make([][]line, len(cells))
	taken, left := false, false
	for c, lines := range cells {
		n, used := 0, 0.0
		for n < len(lines) && (used+lines[n].height <= avail || (force && n == 0)) {
			used += lines[n].height
			n++
		}
		head[c], tail[c] = lines[:n], lines[n:]
		taken = taken || n > 0
		left = left || n < len(lines)
		h = max(h, used)
	}
	if !taken {
		return nil, cells, 0
	}
	if !left {
		tail = nil
	}
	return head, tail, h
}

// drawCells draws one band of a row at the current position.
func (p *page) drawCells(cells [][]line, widths []float64, height float64) {
	p.pdf.SetDrawColor(gridGrey, gridGrey, gridGrey)
	p.pdf.SetLineWidth(gridLineWidth)
	x := p.left
	for c, w := range widths {
		p.pdf.Rect(x, p.y, w, height, "D")
		y := p.y + cellPaddingY
		for _, l := range cells[c] {
			drawLine(p.pdf, l, x+cellPaddingX, y, w-2*cellPaddingX, model.AlignLeft)
			y += l.height
		}
		x += w
	}
	p.y += height
}
