// Package pipeline renders extracted sections to PDF files concurrently.
//
// Each section becomes one independent job. Jobs run on a bounded worker
// pool, share no mutable state and fail in isolation: an error or panic in
// one job is recorded in the [Report] and never stops its siblings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/docsplit/model"
	"github.com/tsawler/docsplit/render"
)

// ErrNoSections is returned when there is nothing to render.
var ErrNoSections = errors.New("no matching headers found")

// ManifestName is the report file written into the output directory.
const ManifestName = "manifest.yaml"

// Result status values.
const (
	StatusOK        = "ok"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// SectionRenderer writes one section to a file.
type SectionRenderer interface {
	Render(sec model.Section, path string) error
}

// Config controls a pipeline run.
type Config struct {
	// Source is the input document path, recorded in the manifest.
	Source string

	// Levels are the heading levels used to split, recorded in the manifest.
	Levels []int

	// OutputDir receives one PDF per section and the manifest.
	OutputDir string

	// Workers bounds concurrent render jobs. Zero means DefaultWorkers().
	Workers int

	// Metadata is copied into each PDF by the default renderer. The
	// document title is recorded in the manifest.
	Metadata model.Metadata

	// Renderer overrides the PDF renderer.
	Renderer SectionRenderer

	// Out receives user-facing progress lines. Nil means os.Stdout.
	Out io.Writer
}

// DefaultWorkers returns half the CPUs, at least one.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()/2)
}

// Job is one section render request. Seq is 1-based.
type Job struct {
	Seq     int
	Section model.Section
	Path    string
}

// Jobs assigns sequence numbers and output paths to sections. Sequence
// numbers keep paths unique when headers sanitize to the same name.
func Jobs(sections []model.Section, outputDir string) []Job {
	jobs := make([]Job, len(sections))
	for i, sec := range sections {
		seq := i + 1
		jobs[i] = Job{
			Seq:     seq,
			Section: sec,
			Path:    filepath.Join(outputDir, FileName(seq, sec.Header.Text())),
		}
	}
	return jobs
}

// Result describes the outcome of one job.
type Result struct {
	Seq        int    `yaml:"seq"`
	Header     string `yaml:"header"`
	Level      int    `yaml:"level,omitempty"`
	File       string `yaml:"file"`
	Status     string `yaml:"status"`
	Error      string `yaml:"error,omitempty"`
	Paragraphs int    `yaml:"paragraphs"`
	ListItems  int    `yaml:"list_items"`
	Tables     int    `yaml:"tables"`
	Images     int    `yaml:"images"`

	err error
}

// Report summarises a run. Sections are ordered by sequence number.
type Report struct {
	Source    string   `yaml:"source,omitempty"`
	Title     string   `yaml:"title,omitempty"`
	Levels    []int    `yaml:"levels,omitempty"`
	OutputDir string   `yaml:"output_dir"`
	Rendered  int      `yaml:"rendered"`
	Failed    int      `yaml:"failed"`
	Sections  []Result `yaml:"sections"`
}

// Err joins the errors of every failed or cancelled job.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Sections {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("section %d: %w", res.Seq, res.err))
		}
	}
	return errors.Join(errs...)
}

// Run renders sections into cfg.OutputDir and writes the manifest. Per-job
// failures are reported in the returned Report, not as an error; Run's
// error covers setup problems and the empty input case (ErrNoSections).
// Cancelling ctx stops new jobs from starting.
func Run(ctx context.Context, cfg Config, sections []model.Section) (*Report, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	if len(sections) == 0 {
		fmt.Fprintln(out, "No matching headers found.")
		return nil, ErrNoSections
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.NewRenderer(cfg.Metadata)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	jobs := Jobs(sections, cfg.OutputDir)
	results := make([]Result, len(jobs))
	var outMu sync.Mutex

	slog.Info("rendering sections", "count", len(jobs), "workers", workers, "output", cfg.OutputDir)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		results[i] = newResult(job)
		if err := ctx.Err(); err != nil {
			results[i].fail(StatusCancelled, err)
			continue
		}

		g.Go(func() error {
			res := &results[i]
			if err := ctx.Err(); err != nil {
				res.fail(StatusCancelled, err)
				return nil
			}
			if err := renderSafely(renderer, job); err != nil {
				res.fail(StatusFailed, err)
				slog.Error("section failed", "seq", job.Seq, "header", res.Header, "error", err)
				return nil
			}
			res.Status = StatusOK
			outMu.Lock()
			fmt.Fprintf(out, "Saved: %s\n", job.Path)
			outMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		Source:    cfg.Source,
		Title:     cfg.Metadata.Title,
		Levels:    cfg.Levels,
		OutputDir: cfg.OutputDir,
		Sections:  results,
	}
	for _, res := range results {
		if res.Status == StatusOK {
			report.Rendered++
		} else {
			report.Failed++
		}
	}

	if err := WriteManifest(filepath.Join(cfg.OutputDir, ManifestName), report); err != nil {
		return report, err
	}
	return report, nil
}

func newResult(job Job) Result {
	counts := model.CountKinds(job.Section.Content)
	return Result{
		Seq:        job.Seq,
		Header:     job.Section.Header.Text(),
		Level:      job.Section.Header.Level,
		File:       filepath.Base(job.Path),
		Paragraphs: counts[model.ItemParagraph],
		ListItems:  counts[model.ItemListItem],
		Tables:     counts[model.ItemTable],
		Images:     counts[model.ItemImage],
	}
}

func (r *Result) fail(status string, err error) {
	r.Status = status
	r.Error = err.Error()
	r.err = err
}

// renderSafely runs one job, converting a panic into an error.
func renderSafely(r SectionRenderer, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic rendering %s: %v", filepath.Base(job.Path), p)
		}
	}()
	return r.Render(job.Section, job.Path)
}

// WriteManifest marshals report to a YAML file.
func WriteManifest(path string, report *Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
