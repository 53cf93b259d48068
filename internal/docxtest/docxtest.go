// Package docxtest builds small DOCX packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// ImageRelType is the relationship type of embedded pictures.
const ImageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

// Rel is a main-document relationship.
type Rel struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// Fixture describes a DOCX package.
type Fixture struct {
	Body   string            // inner XML of <w:body>
	Styles string            // inner XML of <w:styles>; no styles part when empty
	Rels   []Rel             // word/_rels/document.xml.rels entries
	Parts  map[string][]byte // extra parts, e.g. "word/media/image1.png"
	Title  string            // docProps/core.xml title; no core part when empty
	Author string
}

// Bytes returns the zipped package.
func (f Fixture) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	if err := add("[Content_Types].xml", contentTypes); err != nil {
		return nil, err
	}
	if err := add("_rels/.rels", packageRels); err != nil {
		return nil, err
	}
	if err := add("word/document.xml", documentHead+f.Body+documentTail); err != nil {
		return nil, err
	}
	if f.Styles != "" {
		if err := add("word/styles.xml", stylesHead+f.Styles+"</w:styles>"); err != nil {
			return nil, err
		}
	}
	if len(f.Rels) > 0 {
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
		sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
		for _, rel := range f.Rels {
			typ := rel.Type
			if typ == "" {
				typ = ImageRelType
			}
			mode := ""
			if rel.TargetMode != "" {
				mode = fmt.Sprintf(` TargetMode="%s"`, rel.TargetMode)
			}
			fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, rel.ID, typ, rel.Target, mode)
		}
		sb.WriteString(`</Relationships>`)
		if err := add("word/_rels/document.xml.rels", sb.String()); err != nil {
			return nil, err
		}
	}
	if f.Title != "" || f.Author != "" {
		core := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>%s</dc:title><dc:creator>%s</dc:creator></cp:coreProperties>`, f.Title, f.Author)
		if err := add("docProps/core.xml", core); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(f.Parts))
	for name := range f.Parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Parts[name]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the fixture to a temporary .docx file and returns its path.
func Write(tb testing.TB, f Fixture) string {
	tb.Helper()

	data, err := f.Bytes()
	if err != nil {
		tb.Fatalf("building docx: %v", err)
	}
	path := filepath.Join(tb.TempDir(), "test.docx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("writing docx: %v", err)
	}
	return path
}

// PNG returns an encoded w x h PNG.
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// R returns a run. props is inner XML of <w:rPr>, may be empty.
func R(text, props string) string {
	rpr := ""
	if props != "" {
		rpr = "<w:rPr>" + props + "</w:rPr>"
	}
	return fmt.Sprintf(`<w:r>%s<w:t xml:space="preserve">%s</w:t></w:r>`, rpr, text)
}

// P returns a paragraph with the given style ID ("" for none) and runs.
func P(styleID string, runs ...string) string {
	ppr := ""
	if styleID != "" {
		ppr = fmt.Sprintf(`<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, styleID)
	}
	return "<w:p>" + ppr + strings.Join(runs, "") + "</w:p>"
}

// Heading returns a paragraph styled with the built-in heading style ID.
func Heading(level int, text string) string {
	return P(fmt.Sprintf("Heading%d", level), R(text, ""))
}

// Drawing returns a run holding an inline picture that embeds relID.
func Drawing(relID string) string {
	return fmt.Sprintf(`<w:r><w:drawing><wp:inline><wp:extent cx="952500" cy="952500"/><wp:docPr id="1" name="Picture 1"/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="image.png"/><pic:cNvPicPr/></pic:nvPicPr><pic:blipFill><a:blip r:embed="%s"/></pic:blipFill></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`, relID)
}

// Table returns a table with one paragraph per cell.
func Table(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl><w:tblPr/><w:tblGrid>")
	if len(rows) > 0 {
		for range rows[0] {
			sb.WriteString(`<w:gridCol w:w="2880"/>`)
		}
	}
	sb.WriteString("</w:tblGrid>")
	for _, row := range rows {
		sb.WriteString("<w:tr>")
		for _, cell := range row {
			sb.WriteString("<w:tc>")
			if cell == "" {
				sb.WriteString("<w:p/>")
			} else {
				sb.WriteString(P("", R(cell, "")))
			}
			sb.WriteString("</w:tc>")
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}

// Style returns a paragraph style definition. rpr is inner XML of <w:rPr>.
func Style(id, name, rpr string) string {
	return fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:rPr>%s</w:rPr></w:style>`, id, name, rpr)
}

// CharStyle returns a character style definition.
func CharStyle(id, name, rpr string) string {
	return fmt.Sprintf(`<w:style w:type="character" w:styleId="%s"><w:name w:val="%s"/><w:rPr>%s</w:rPr></w:style>`, id, name, rpr)
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture" xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">
  <w:body>`

const documentTail = `<w:sectPr/></w:body>
</w:document>`

const stylesHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`
