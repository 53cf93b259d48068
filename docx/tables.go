package docx

import "strconv"

// ParsedTable represents a parsed table with resolved structure.
type ParsedTable struct {
	Rows      []ParsedTableRow
	ColWidths []float64 // Column widths in points
}

// ParsedTableRow represents a parsed table row.
type ParsedTableRow struct {
	Cells    []ParsedTableCell
	IsHeader bool // Repeated at the top of each page (tblHeader)
}

// ParsedTableCell represents a parsed table cell.
type ParsedTableCell struct {
	Paragraphs []Paragraph

	// Structure
	ColSpan              int  // Number of columns spanned (gridSpan)
	IsMergedContinuation bool // True if this is a continuation of a vertical merge

	Width float64 // Preferred width in points (tcW); 0 when not absolute
}

// TableParser handles parsing of DOCX tables.
type TableParser struct{}

// NewTableParser creates a new table parser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// ParseTable parses a table XML element into a ParsedTable.
func (tp *TableParser) ParseTable(tbl tableXML) ParsedTable {
	parsed := ParsedTable{
		ColWidths: tp.parseTableGrid(tbl.Grid),
	}

	for _, row := range tbl.Rows {
		parsed.Rows = append(parsed.Rows, tp.parseRow(row))
	}

	return parsed
}

// parseTableGrid extracts column widths from the table grid.
func (tp *TableParser) parseTableGrid(grid tableGridXML) []float64 {
	widths := make([]float64, len(grid.Cols))
	for i, col := range grid.Cols {
		widths[i] = parseTwips(col.W)
	}
	return widths
}

// parseRow parses a table row.
func (tp *TableParser) parseRow(row tableRowXML) ParsedTableRow {
	parsed := ParsedTableRow{
		IsHeader: row.Properties.Header.XMLName.Local != "",
	}

	for _, cell := range row.Cells {
		parsed.Cells = append(parsed.Cells, tp.parseCell(cell))
	}

	return parsed
}

// parseCell parses a table cell.
func (tp *TableParser) parseCell(cell tableCellXML) ParsedTableCell {
	parsed := ParsedTableCell{
		ColSpan: 1,
	}

	props := cell.Properties

	if props.GridSpan.Val != "" {
		if span, err := strconv.Atoi(props.GridSpan.Val); err == nil && span > 0 {
			parsed.ColSpan = span
		}
	}

	// An empty vMerge val means the cell continues the merge above it
	if props.VMerge.XMLName.Local == "vMerge" && props.VMerge.Val != "restart" {
		parsed.IsMergedContinuation = true
	}

	// Percent and auto widths depend on the page and are left to the renderer
	if props.Width.Type == "" || props.Width.Type == "dxa" {
		parsed.Width = parseTwips(props.Width.W)
	}

	for _, para := range cell.Paragraphs {
		parsed.Paragraphs = append(parsed.Paragraphs, newParagraph(para))
	}

	return parsed
}
