package docsplit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/tsawler/docsplit/docx"
	"github.com/tsawler/docsplit/extract"
	"github.com/tsawler/docsplit/format"
	"github.com/tsawler/docsplit/model"
	"github.com/tsawler/docsplit/pipeline"
	"github.com/tsawler/docsplit/section"
)

// Splitter provides a fluent interface for splitting a document. Each
// configuration method returns a new Splitter, so a configured Splitter can
// be shared and reused.
type Splitter struct {
	filename string
	options  SplitOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Splitter with a deep copy of options.
func (s *Splitter) clone() *Splitter {
	return &Splitter{
		filename: s.filename,
		options:  s.options.clone(),
		err:      s.err,
	}
}

// ============================================================================
// Configuration Methods (return new Splitter instance)
// ============================================================================

// Levels sets the heading levels that open sections. Only 1, 2 and 3 are
// accepted; duplicates are ignored. The default is level 1.
//
// Example:
//
//	sections, err := docsplit.Open("demo.docx").Levels(1, 2).Sections()
func (s *Splitter) Levels(levels ...int) *Splitter {
	newS := s.clone()
	if newS.err != nil {
		return newS
	}

	var kept []int
	for _, l := range levels {
		if l < 1 || l > 3 {
			newS.err = fmt.Errorf("%w: level %d (want 1, 2 or 3)", pipeline.ErrInvalidLevels, l)
			return newS
		}
		if !slices.Contains(kept, l) {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		newS.err = pipeline.ErrInvalidLevels
		return newS
	}
	newS.options.levels = kept
	return newS
}

// ImageDir sets the directory extracted pictures are written to.
//
// Example:
//
//	report, err := docsplit.Open("demo.docx").ImageDir("tmp/images").Render(ctx, "out")
func (s *Splitter) ImageDir(dir string) *Splitter {
	newS := s.clone()
	newS.options.imageDir = dir
	return newS
}

// Workers bounds the number of sections rendered at once. Zero or less
// selects the default, half the CPU count.
func (s *Splitter) Workers(n int) *Splitter {
	newS := s.clone()
	newS.options.workers = n
	return newS
}

// KeepOtherHeadings adds headings whose level was not selected to the
// enclosing section as plain paragraphs instead of dropping them.
func (s *Splitter) KeepOtherHeadings() *Splitter {
	newS := s.clone()
	newS.options.keepOtherHeadings = true
	return newS
}

// Output sets where per-section progress lines such as "Saved: <path>"
// and "No matching headers found." are written. The default is stdout.
func (s *Splitter) Output(w io.Writer) *Splitter {
	newS := s.clone()
	newS.options.output = w
	return newS
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Sections parses the document and returns its sections. Pictures inside
// sections are written to the image directory as a side effect.
func (s *Splitter) Sections() ([]model.Section, error) {
	sections, _, err := s.split()
	return sections, err
}

// Render splits the document and renders each section to a PDF in
// outputDir, returning the per-section report. When no section matches,
// the error is pipeline.ErrNoSections.
func (s *Splitter) Render(ctx context.Context, outputDir string) (*pipeline.Report, error) {
	sections, meta, err := s.split()
	if err != nil {
		return nil, err
	}

	return pipeline.Run(ctx, pipeline.Config{
		Source:    s.filename,
		Levels:    s.options.levels,
		OutputDir: outputDir,
		Workers:   s.options.workers,
		Metadata:  meta,
		Out:       s.options.output,
	}, sections)
}

// split opens the document, walks it once and closes it.
func (s *Splitter) split() ([]model.Section, model.Metadata, error) {
	if s.err != nil {
		return nil, model.Metadata{}, s.err
	}
	if s.filename == "" {
		return nil, model.Metadata{}, fmt.Errorf("no filename specified")
	}
	if err := format.Check(s.filename); err != nil {
		return nil, model.Metadata{}, err
	}

	r, err := docx.Open(s.filename)
	if err != nil {
		return nil, model.Metadata{}, fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	store, err := extract.NewImageStore(s.options.imageDir)
	if err != nil {
		return nil, model.Metadata{}, err
	}

	walker := section.NewWalker(section.Options{
		Levels:            s.options.levels,
		KeepOtherHeadings: s.options.keepOtherHeadings,
	}, store)
	sections := walker.Walk(r)

	slog.Debug("split document", "file", s.filename, "levels", s.options.levels, "sections", len(sections))
	return sections, r.Metadata(), nil
}
