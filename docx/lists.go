package docx

import "strings"

// ListType represents the type of list.
type ListType int

const (
	ListTypeNone      ListType = iota // Not a list paragraph
	ListTypeUnordered                 // Bullet list
	ListTypeOrdered                   // Numbered list
)

// ListTypeOf classifies a paragraph by its style name. Styles whose name
// starts with "list" (any case) are list paragraphs; those whose name
// contains "Number" are ordered.
func ListTypeOf(styleName string) ListType {
	if !strings.HasPrefix(strings.ToLower(styleName), "list") {
		return ListTypeNone
	}
	if strings.Contains(styleName, "Number") {
		return ListTypeOrdered
	}
	return ListTypeUnordered
}
