package docx

import "errors"

var (
	// ErrNotDOCX is returned when an archive lacks the parts every DOCX has.
	ErrNotDOCX = errors.New("docx: not a DOCX document")

	// ErrPartNotFound is returned when a relationship targets a missing part.
	ErrPartNotFound = errors.New("docx: part not found")

	// ErrRelationshipNotFound is returned for unknown relationship IDs.
	ErrRelationshipNotFound = errors.New("docx: relationship not found")

	// ErrExternalTarget is returned for relationships that point outside
	// the package, such as linked images.
	ErrExternalTarget = errors.New("docx: relationship target is external")
)
