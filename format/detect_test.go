package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{PDF, "PDF"},
		{ODT, "ODT"},
		{XLSX, "XLSX"},
		{PPTX, "PPTX"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"report.docx", DOCX},
		{"REPORT.DOCX", DOCX},
		{"macro.docm", DOCX},
		{"template.dotx", DOCX},
		{"scan.pdf", PDF},
		{"notes.odt", ODT},
		{"sheet.xlsx", XLSX},
		{"deck.pptx", PPTX},
		{"readme.txt", Unknown},
		{"noext", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.7\n..."), PDF},
		{"docx", zipWith(t, map[string]string{"[Content_Types].xml": "", "word/document.xml": ""}), DOCX},
		{"word dir without main part", zipWith(t, map[string]string{"word/styles.xml": ""}), Unknown},
		{"xlsx", zipWith(t, map[string]string{"xl/workbook.xml": ""}), XLSX},
		{"pptx", zipWith(t, map[string]string{"ppt/presentation.xml": ""}), PPTX},
		{"odt", zipWith(t, map[string]string{"mimetype": "application/vnd.oasis.opendocument.text"}), ODT},
		{"plain zip", zipWith(t, map[string]string{"a.txt": "a"}), Unknown},
		{"text", []byte("hello"), Unknown},
		{"short", []byte("P"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	docx := filepath.Join(dir, "renamed.bin")
	os.WriteFile(docx, zipWith(t, map[string]string{"word/document.xml": ""}), 0o644)
	if err := Check(docx); err != nil {
		t.Errorf("Check(docx content) = %v, want nil", err)
	}

	pdf := filepath.Join(dir, "actually.docx")
	os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644)
	if err := Check(pdf); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Check(pdf content) = %v, want ErrUnsupported", err)
	}

	if err := Check(filepath.Join(dir, "missing.docx")); err == nil || errors.Is(err, ErrUnsupported) {
		t.Errorf("Check(missing) = %v, want an open error", err)
	}

	if err := Check(dir); err == nil {
		t.Error("Check(directory) = nil, want error")
	}
}
