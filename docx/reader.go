// Package docx provides DOCX (Office Open XML) document parsing.
//
// A [Reader] exposes the document body as ordered [Block] values, resolves
// named styles through a [StyleResolver], and resolves relationship IDs to
// the bytes of embedded parts such as images.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/tsawler/docsplit/model"
)

// Reader provides access to DOCX document content.
type Reader struct {
	file      *os.File
	zipReader *zip.Reader
	files     map[string]*zip.File
	rels      map[string]relationshipXML
	styles    *StyleResolver
	coreProps *corePropertiesXML
	blocks    []Block
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	r, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads a DOCX package from ra. The caller keeps ownership of ra.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		rels:      make(map[string]relationshipXML),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	// Relationships first; images in the body refer to them
	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	// Styles are optional
	var styles *stylesXML
	if data, err := r.getFileContent("word/styles.xml"); err == nil {
		styles = &stylesXML{}
		if err := xml.Unmarshal(data, styles); err != nil {
			styles = nil
		}
	}
	r.styles = NewStyleResolver(styles)

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	r.parseCoreProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Blocks returns the top-level paragraphs and tables in document order.
func (r *Reader) Blocks() []Block {
	return r.blocks
}

// Styles returns the document's style resolver.
func (r *Reader) Styles() *StyleResolver {
	return r.styles
}

// Metadata returns document metadata from docProps/core.xml.
func (r *Reader) Metadata() model.Metadata {
	if r.coreProps == nil {
		return model.Metadata{}
	}
	return model.Metadata{
		Title:   strings.TrimSpace(r.coreProps.Title),
		Author:  strings.TrimSpace(r.coreProps.Creator),
		Subject: strings.TrimSpace(r.coreProps.Subject),
	}
}

// Part returns the bytes of the package part a main-document relationship
// points to.
func (r *Reader) Part(relID string) ([]byte, error) {
	rel, ok := r.rels[relID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRelationshipNotFound, relID)
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return nil, fmt.Errorf("%w: %s", ErrExternalTarget, rel.Target)
	}

	data, err := r.getFileContent(resolvePartName("word", rel.Target))
	if err != nil {
		return nil, fmt.Errorf("relationship %q: %w", relID, err)
	}
	return data, nil
}

// resolvePartName resolves a relationship target against the directory of
// the source part. Absolute targets are relative to the package root.
func resolvePartName(baseDir, target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(baseDir, target))
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	for _, name := range required {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("%w: missing required file: %s", ErrNotDOCX, name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the document relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		// Relationships file is optional
		return nil
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationships {
		r.rels[rel.ID] = rel
	}
	return nil
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	elements, err := parseBodyElements(data)
	if err != nil {
		return err
	}

	tp := NewTableParser()
	r.blocks = make([]Block, 0, len(elements))
	for _, el := range elements {
		switch el.Type {
		case "paragraph":
			p := newParagraph(*el.Paragraph)
			r.blocks = append(r.blocks, Block{Kind: BlockParagraph, Paragraph: &p})
		case "table":
			t := tp.ParseTable(*el.Table)
			r.blocks = append(r.blocks, Block{Kind: BlockTable, Table: &t})
		}
	}
	return nil
}

// parseBodyElements decodes the direct children of <w:body> in document
// order. Block-level content controls are transparent.
func parseBodyElements(data []byte) ([]bodyElement, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var elements []bodyElement
	inBody := false
	depth := 0

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if !inBody {
				if t.Name.Local == "body" && (t.Name.Space == nsW || t.Name.Space == "") {
					inBody = true
				}
				continue
			}

			switch t.Name.Local {
			case "p":
				var para paragraphXML
				if err := decoder.DecodeElement(&para, &t); err != nil {
					return nil, fmt.Errorf("decoding paragraph: %w", err)
				}
				elements = append(elements, bodyElement{Type: "paragraph", Paragraph: &para})
			case "tbl":
				var tbl tableXML
				if err := decoder.DecodeElement(&tbl, &t); err != nil {
					return nil, fmt.Errorf("decoding table: %w", err)
				}
				elements = append(elements, bodyElement{Type: "table", Table: &tbl})
			case "sdt", "sdtContent", "customXml":
				depth++
			default:
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
			}

		case xml.EndElement:
			if !inBody {
				continue
			}
			if depth == 0 {
				// </w:body>
				return elements, nil
			}
			depth--
		}
	}

	return elements, nil
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if err := xml.Unmarshal(data, props); err == nil {
		r.coreProps = props
	}
}
