package model

import "strings"

// ItemKind identifies the concrete type of a ContentItem.
type ItemKind int

const (
	ItemParagraph ItemKind = iota
	ItemListItem
	ItemTable
	ItemImage
)

func (k ItemKind) String() string {
	switch k {
	case ItemParagraph:
		return "Paragraph"
	case ItemListItem:
		return "ListItem"
	case ItemTable:
		return "Table"
	case ItemImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// ContentItem is one block of section content. The set of implementations is
// closed: Paragraph, ListItem, Table and Image.
type ContentItem interface {
	Kind() ItemKind
	contentItem()
}

// Paragraph is a plain paragraph of styled runs.
type Paragraph struct {
	Runs []StyledRun
}

func (*Paragraph) Kind() ItemKind { return ItemParagraph }
func (*Paragraph) contentItem()   {}

// ListItem is a paragraph with a list style. Index counts the items already
// in the enclosing section plus one; it is not reset between lists.
type ListItem struct {
	Ordered bool
	Index   int
	Runs    []StyledRun
}

func (*ListItem) Kind() ItemKind { return ItemListItem }
func (*ListItem) contentItem()   {}

// Table holds row-major cell markup. An empty string is an empty cell.
type Table struct {
	Rows      [][]string
	ColWidths []float64 // points, from the source grid; may be empty

	// HeaderRows is the number of leading rows repeated on each page.
	HeaderRows int
}

func (*Table) Kind() ItemKind { return ItemTable }
func (*Table) contentItem()   {}

// ColCount returns the widest row length.
func (t *Table) ColCount() int {
	n := 0
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Image references an extracted image file.
type Image struct {
	Path string
}

func (*Image) Kind() ItemKind { return ItemImage }
func (*Image) contentItem()   {}

// ItemText returns the visible text of runs-based items. Tables and images
// have no run text and return "".
func ItemText(item ContentItem) string {
	switch it := item.(type) {
	case *Paragraph:
		return RunsText(it.Runs)
	case *ListItem:
		return RunsText(it.Runs)
	default:
		return ""
	}
}

// CountKinds tallies content items by kind.
func CountKinds(items []ContentItem) map[ItemKind]int {
	counts := make(map[ItemKind]int)
	for _, it := range items {
		counts[it.Kind()]++
	}
	return counts
}

// joinTexts is used by Section.Text.
func joinTexts(items []ContentItem) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(ItemText(it))
	}
	return sb.String()
}
