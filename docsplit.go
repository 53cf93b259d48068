// Package docsplit splits a DOCX document into heading-delimited sections
// and renders each section as its own PDF.
//
// Basic usage:
//
//	report, err := docsplit.Open("demo.docx").
//	    Levels(1, 2).
//	    Render(ctx, "output_pdfs")
//
// To inspect sections without rendering:
//
//	sections, err := docsplit.Open("demo.docx").Levels(1).Sections()
//
// The lower-level docx, section, render and pipeline packages are also
// available.
package docsplit

// Open returns a Splitter for filename. Nothing is read until a terminal
// operation such as Sections or Render is called.
//
// Example:
//
//	sections, err := docsplit.Open("demo.docx").Sections()
func Open(filename string) *Splitter {
	return &Splitter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	sections := docsplit.Must(docsplit.Open("demo.docx").Sections())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
