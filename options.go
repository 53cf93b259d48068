package docsplit

import "io"

// Defaults used when a Splitter is not configured otherwise.
const (
	DefaultInput     = "demo.docx"
	DefaultOutputDir = "output_pdfs"
	DefaultImageDir  = "images"
)

// SplitOptions holds configuration for splitting and rendering.
type SplitOptions struct {
	// Heading levels that open sections
	levels []int

	// Where extracted pictures are written
	imageDir string

	// Concurrent render jobs; 0 picks a default from the CPU count
	workers int

	// Fold headings of other levels into sections as paragraphs
	keepOtherHeadings bool

	// Progress lines ("Saved: ..."); nil means stdout
	output io.Writer
}

// defaultOptions returns the default split options.
func defaultOptions() SplitOptions {
	return SplitOptions{
		levels:   []int{1},
		imageDir: DefaultImageDir,
	}
}

// clone creates a deep copy of SplitOptions.
func (o SplitOptions) clone() SplitOptions {
	newOpts := o
	if o.levels != nil {
		newOpts.levels = make([]int, len(o.levels))
		copy(newOpts.levels, o.levels)
	}
	return newOpts
}
