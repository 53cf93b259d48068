// Package model provides the intermediate representation for sections
// extracted from a word-processing document.
//
// A [Section] pairs a [Header] with the ordered [ContentItem] values that
// follow it in the source document. Every content item is one of four
// concrete kinds:
//
//   - [Paragraph] - a run of styled text
//   - [ListItem] - a bulleted or numbered list entry
//   - [Table] - a grid of cells holding inline markup
//   - [Image] - an image file extracted to disk
//
// Consumers dispatch on the concrete type with a type switch:
//
//	for _, item := range sec.Content {
//	    switch it := item.(type) {
//	    case *model.Paragraph:
//	    case *model.ListItem:
//	    case *model.Table:
//	    case *model.Image:
//	    }
//	}
//
// Text is carried as [StyledRun] values: the smallest span sharing one
// resolved formatting (bold, italic, underline, color and size).
package model
