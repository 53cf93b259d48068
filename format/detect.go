// Package format identifies input documents before they are parsed, so
// that a PDF or a spreadsheet handed to docsplit fails with a clear message
// instead of a zip or XML error.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by Check for anything that is not a
// word-processing OOXML package.
var ErrUnsupported = errors.New("unsupported input format")

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a WordprocessingML package (.docx, .docm, .dotx).
	DOCX
	// PDF indicates a PDF document.
	PDF
	// ODT indicates an OpenDocument Text document.
	ODT
	// XLSX indicates a SpreadsheetML package.
	XLSX
	// PPTX indicates a PresentationML package.
	PPTX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case PDF:
		return "PDF"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// Detect determines the format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx", ".docm", ".dotx", ".dotm":
		return DOCX
	case ".pdf":
		return PDF
	case ".odt":
		return ODT
	case ".xlsx", ".xlsm":
		return XLSX
	case ".pptx", ".pptm":
		return PPTX
	default:
		return Unknown
	}
}

var (
	magicPDF = []byte("%PDF")
	magicZIP = []byte("PK\x03\x04")
)

// DetectFromReader inspects content to determine the format. Zip packages
// are told apart by their main part.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, magicPDF):
		return PDF, nil
	case bytes.HasPrefix(magic, magicZIP):
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// detectZIPFormat looks for the main part of each OOXML flavour and the
// OpenDocument mimetype entry.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return DOCX, nil
		case "xl/workbook.xml":
			return XLSX, nil
		case "ppt/presentation.xml":
			return PPTX, nil
		case "mimetype":
			if isODTMimetype(f) {
				return ODT, nil
			}
		}
	}
	return Unknown, nil
}

func isODTMimetype(f *zip.File) bool {
	rc, err := f.Open()
	if err != nil {
		return false
	}
	defer rc.Close()
	data, _ := io.ReadAll(io.LimitReader(rc, 256))
	return strings.HasPrefix(string(data), "application/vnd.oasis.opendocument.text")
}

// DetectFile sniffs the file at path. The extension is used only when the
// content is not recognised.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	if info.IsDir() {
		return Unknown, fmt.Errorf("%s is a directory", path)
	}

	format, err := DetectFromReader(f, info.Size())
	if err != nil || format == Unknown {
		return Detect(path), nil
	}
	return format, nil
}

// Check returns nil when path holds a DOCX package, and an error wrapping
// ErrUnsupported naming the detected format otherwise.
func Check(path string) error {
	format, err := DetectFile(path)
	if err != nil {
		return err
	}
	if format != DOCX {
		return fmt.Errorf("%w: %s is %s, expected DOCX", ErrUnsupported, filepath.Base(path), format)
	}
	return nil
}
