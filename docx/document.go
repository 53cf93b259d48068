package docx

import (
	"encoding/xml"
	"strings"
)

// nsW is the WordprocessingML main namespace.
const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// bodyElement represents an element in the document body (paragraph or table).
type bodyElement struct {
	Type      string // "paragraph" or "table"
	Paragraph *paragraphXML
	Table     *tableXML
}

// paragraphXML represents a paragraph element (<w:p>).
// Runs holds direct runs and runs nested in hyperlinks, insertions and
// inline content controls, in document order.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

// UnmarshalXML flattens the inline containers of a paragraph so that run
// order survives decoding.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case "r":
				var run runXML
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			case "hyperlink", "ins", "smartTag", "fldSimple", "sdt", "sdtContent":
				depth++
			default:
				// Deleted text, bookmarks, proofing marks, sdtPr
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML      `xml:"pStyle"`
	Justification justificationXML `xml:"jc"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

// runXML represents a text run (<w:r>). Text keeps the order of text,
// tab and break children.
type runXML struct {
	Properties runPropsXML
	Text       string
	Drawings   []drawingXML
}

// UnmarshalXML decodes a run, preserving the order of its text pieces.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "rPr":
				err = d.DecodeElement(&r.Properties, &t)
			case "t":
				var text textXML
				if err = d.DecodeElement(&text, &t); err == nil {
					sb.WriteString(text.Value)
				}
			case "tab":
				sb.WriteString("\t")
				err = d.Skip()
			case "br", "cr":
				sb.WriteString("\n")
				err = d.Skip()
			case "noBreakHyphen":
				sb.WriteString("-")
				err = d.Skip()
			case "drawing":
				var dr drawingXML
				if err = d.DecodeElement(&dr, &t); err == nil {
					r.Drawings = append(r.Drawings, dr)
				}
			case "AlternateContent":
				var ac alternateContentXML
				if err = d.DecodeElement(&ac, &t); err == nil {
					r.Drawings = append(r.Drawings, ac.Choice.Drawings...)
					for _, ft := range ac.Fallback.Text {
						sb.WriteString(ft.Value)
					}
				}
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			r.Text = sb.String()
			return nil
		}
	}
}

// alternateContentXML represents mc:AlternateContent. The Choice branch may
// carry a drawing; the Fallback carries plain text for emoji.
type alternateContentXML struct {
	Choice   choiceXML   `xml:"Choice"`
	Fallback fallbackXML `xml:"Fallback"`
}

// choiceXML represents mc:Choice.
type choiceXML struct {
	Drawings []drawingXML `xml:"drawing"`
}

// fallbackXML represents mc:Fallback containing text.
type fallbackXML struct {
	Text []textXML `xml:"t"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     styleRefXML  `xml:"rStyle"`
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	FontSize  sizeXML      `xml:"sz"`
	Color     colorXML     `xml:"color"`
}

// boolXML represents a toggle property. XMLName is set when the element is present.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// underlineXML represents underline style.
type underlineXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"` // single, double, none, etc.
}

// sizeXML represents font size (in half-points).
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// colorXML represents text color.
type colorXML struct {
	Val string `xml:"val,attr"` // Hex color or "auto"
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"` // preserve
	Value string `xml:",chardata"`
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline *inlineXML `xml:"inline"`
	Anchor *anchorXML `xml:"anchor"`
}

// blip returns the picture reference of the drawing, if any.
func (d drawingXML) blip() *blipXML {
	if d.Inline != nil && d.Inline.Blip != nil {
		return d.Inline.Blip
	}
	if d.Anchor != nil && d.Anchor.Blip != nil {
		return d.Anchor.Blip
	}
	return nil
}

// inlineXML represents an inline image.
type inlineXML struct {
	Blip *blipXML `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// anchorXML represents an anchored image.
type anchorXML struct {
	Blip *blipXML `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// blipXML represents an image reference.
type blipXML struct {
	Embed string `xml:"embed,attr"` // Relationship ID
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Grid tableGridXML  `xml:"tblGrid"`
	Rows []tableRowXML `xml:"tr"`
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Header boolXML `xml:"tblHeader"` // Is this a header row?
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	Width    tableSizeXML `xml:"tcW"`
	GridSpan gridSpanXML  `xml:"gridSpan"`
	VMerge   vMergeXML    `xml:"vMerge"`
}

// tableSizeXML represents table/cell size.
type tableSizeXML struct {
	W    string `xml:"w,attr"`    // Width value
	Type string `xml:"type,attr"` // dxa (twips), pct, auto
}

// gridSpanXML represents column span.
type gridSpanXML struct {
	Val string `xml:"val,attr"` // Number of columns spanned
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"` // "restart" or empty (continue)
}
