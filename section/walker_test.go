package section

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docsplit/docx"
	"github.com/tsawler/docsplit/extract"
	"github.com/tsawler/docsplit/internal/docxtest"
	"github.com/tsawler/docsplit/markup"
	"github.com/tsawler/docsplit/model"
)

func walk(t *testing.T, f docxtest.Fixture, opts Options) ([]model.Section, string) {
	t.Helper()

	r, err := docx.Open(docxtest.Write(t, f))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	imageDir := filepath.Join(t.TempDir(), "images")
	store, err := extract.NewImageStore(imageDir)
	require.NoError(t, err)

	return NewWalker(opts, store).Walk(r), imageDir
}

func headers(sections []model.Section) []string {
	var out []string
	for _, s := range sections {
		out = append(out, s.Header.Text())
	}
	return out
}

func TestWalk_IntroConclusion(t *testing.T) {
	f := docxtest.Fixture{
		Body: docxtest.Heading(1, "Intro") +
			docxtest.P("", docxtest.R("Hello world", ""), docxtest.Drawing("rId5")) +
			docxtest.Heading(1, "Conclusion") +
			docxtest.Table([]string{"a", "b"}, []string{"c", "d"}),
		Rels:  []docxtest.Rel{{ID: "rId5", Target: "media/image1.png"}},
		Parts: map[string][]byte{"word/media/image1.png": docxtest.PNG(4, 4)},
	}

	sections, imageDir := walk(t, f, Options{Levels: []int{1}})
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"Intro", "Conclusion"}, headers(sections))

	intro := sections[0]
	require.Len(t, intro.Content, 2)
	para, ok := intro.Content[0].(*model.Paragraph)
	require.True(t, ok, "first item should be a paragraph")
	assert.Equal(t, "Hello world", model.RunsText(para.Runs))
	img, ok := intro.Content[1].(*model.Image)
	require.True(t, ok, "second item should be an image")
	assert.Equal(t, imageDir, filepath.Dir(img.Path))
	_, err := os.Stat(img.Path)
	assert.NoError(t, err)

	concl := sections[1]
	require.Len(t, concl.Content, 1)
	tbl, ok := concl.Content[0].(*model.Table)
	require.True(t, ok)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "d", markup.PlainText(tbl.Rows[1][1]))
	assert.Equal(t, []float64{144, 144}, tbl.ColWidths)
}

func TestWalk_AllowedLevels(t *testing.T) {
	body := docxtest.Heading(1, "A") +
		docxtest.P("", docxtest.R("p1", "")) +
		docxtest.Heading(2, "B") +
		docxtest.P("", docxtest.R("p2", "")) +
		docxtest.Heading(3, "C") +
		docxtest.P("", docxtest.R("p3", "")) +
		docxtest.Heading(1, "D")

	t.Run("out of range headings are dropped", func(t *testing.T) {
		sections, _ := walk(t, docxtest.Fixture{Body: body}, Options{Levels: []int{1, 2}})
		require.Equal(t, []string{"A", "B", "D"}, headers(sections))
		assert.Equal(t, "p2p3", sections[1].Text())
		assert.Empty(t, sections[2].Content)
		assert.Equal(t, 2, sections[1].Header.Level)
	})

	t.Run("keep other headings", func(t *testing.T) {
		sections, _ := walk(t, docxtest.Fixture{Body: body}, Options{Levels: []int{1, 2}, KeepOtherHeadings: true})
		require.Equal(t, []string{"A", "B", "D"}, headers(sections))
		assert.Equal(t, "p2Cp3", sections[1].Text())
	})

	t.Run("level 3 only", func(t *testing.T) {
		sections, _ := walk(t, docxtest.Fixture{Body: body}, Options{Levels: []int{3}})
		require.Equal(t, []string{"C"}, headers(sections))
		assert.Equal(t, "p3", sections[0].Text())
	})
}

func TestWalk_NoMatchingHeadings(t *testing.T) {
	f := docxtest.Fixture{
		Body: docxtest.P("", docxtest.R("text", "")) +
			docxtest.Heading(3, "Deep") +
			docxtest.P("", docxtest.Drawing("rId1")),
		Rels:  []docxtest.Rel{{ID: "rId1", Target: "media/image1.png"}},
		Parts: map[string][]byte{"word/media/image1.png": docxtest.PNG(2, 2)},
	}

	sections, imageDir := walk(t, f, Options{Levels: []int{1}})
	assert.Empty(t, sections)

	entries, err := os.ReadDir(imageDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "images before the first header are not extracted")
}

func TestWalk_DiscardsPreamble(t *testing.T) {
	f := docxtest.Fixture{
		Body: docxtest.P("", docxtest.R("preamble", "")) +
			docxtest.Table([]string{"x"}) +
			docxtest.Heading(1, "Start") +
			docxtest.P("", docxtest.R("body", "")),
	}

	sections, _ := walk(t, f, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	assert.Equal(t, "body", sections[0].Text())
	assert.Equal(t, 1, len(sections[0].Content))
}

func TestWalk_CumulativeListNumbering(t *testing.T) {
	f := docxtest.Fixture{
		Body: docxtest.Heading(1, "Lists") +
			docxtest.P("", docxtest.R("intro", "")) +
			docxtest.P("ListBullet", docxtest.R("a", "")) +
			docxtest.P("ListBullet", docxtest.R("b", "")) +
			docxtest.P("ListNumber", docxtest.R("c", "")) +
			docxtest.P("ListNumber") +
			docxtest.P("", docxtest.R("   ", "")),
	}

	sections, _ := walk(t, f, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	content := sections[0].Content
	require.Len(t, content, 5, "whitespace-only paragraph is dropped, empty list item kept")

	var indexes []int
	var ordered []bool
	for _, item := range content[1:] {
		li, ok := item.(*model.ListItem)
		require.True(t, ok)
		indexes = append(indexes, li.Index)
		ordered = append(ordered, li.Ordered)
	}
	assert.Equal(t, []int{2, 3, 4, 5}, indexes)
	assert.Equal(t, []bool{false, false, true, true}, ordered)
	assert.Empty(t, content[4].(*model.ListItem).Runs)
}

func TestWalk_RoundTripText(t *testing.T) {
	f := docxtest.Fixture{
		Body: docxtest.P("", docxtest.R("lost", "")) +
			docxtest.Heading(1, "One") +
			docxtest.P("", docxtest.R("Alpha ", "<w:b/>"), docxtest.R("beta", `<w:color w:val="FF0000"/>`)) +
			docxtest.P("ListBullet", docxtest.R("gamma", "<w:i/>")) +
			docxtest.Heading(1, "Two") +
			docxtest.P("", docxtest.R("delta", "")),
	}

	sections, _ := walk(t, f, Options{Levels: []int{1}})
	require.Len(t, sections, 2)
	assert.Equal(t, "Alpha betagamma", sections[0].Text())
	assert.Equal(t, "delta", sections[1].Text())

	para := sections[0].Content[0].(*model.Paragraph)
	require.Len(t, para.Runs, 2)
	assert.True(t, para.Runs[0].Bold)
	assert.Equal(t, model.RGB{R: 255}, para.Runs[1].Color)
}

func TestWalk_HeaderAlignment(t *testing.T) {
	f := docxtest.Fixture{
		Body: `<w:p><w:pPr><w:pStyle w:val="Heading2"/><w:jc w:val="center"/></w:pPr>` +
			docxtest.R("Centered", "") + `</w:p>`,
	}

	sections, _ := walk(t, f, Options{Levels: []int{2}})
	require.Len(t, sections, 1)
	assert.Equal(t, model.AlignCenter, sections[0].Header.Alignment)
}

func TestWalk_StyleNamesFromStylesPart(t *testing.T) {
	f := docxtest.Fixture{
		Styles: docxtest.Style("Titre1", "heading 1", "") +
			docxtest.Style("Puce", "List Bullet", ""),
		Body: docxtest.P("Titre1", docxtest.R("Chapitre", "")) +
			docxtest.P("Puce", docxtest.R("item", "")),
	}

	sections, _ := walk(t, f, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Content, 1)
	assert.IsType(t, &model.ListItem{}, sections[0].Content[0])
}

func TestWalk_UnresolvedImageSkipped(t *testing.T) {
	f := docxtest.Fixture{
		Body: docxtest.Heading(1, "Pics") +
			docxtest.P("", docxtest.Drawing("rId9"), docxtest.Drawing("rId1")),
		Rels:  []docxtest.Rel{{ID: "rId1", Target: "media/image1.png"}},
		Parts: map[string][]byte{"word/media/image1.png": docxtest.PNG(3, 3)},
	}

	sections, imageDir := walk(t, f, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Content, 1)
	assert.IsType(t, &model.Image{}, sections[0].Content[0])

	entries, err := os.ReadDir(imageDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWalk_NilImageSink(t *testing.T) {
	f := docxtest.Fixture{
		Body:  docxtest.Heading(1, "H") + docxtest.P("", docxtest.Drawing("rId1")),
		Rels:  []docxtest.Rel{{ID: "rId1", Target: "media/image1.png"}},
		Parts: map[string][]byte{"word/media/image1.png": docxtest.PNG(3, 3)},
	}
	r, err := docx.Open(docxtest.Write(t, f))
	require.NoError(t, err)
	defer r.Close()

	sections := NewWalker(Options{Levels: []int{1}}, nil).Walk(r)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Content)
}

func TestTableItem_SpansAndMerges(t *testing.T) {
	tbl := `<w:tbl><w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="2000"/><w:gridCol w:w="2000"/></w:tblGrid>` +
		`<w:tr>` +
		`<w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr>` + docxtest.P("", docxtest.R("wide", "<w:b/>")) + `</w:tc>` +
		`<w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr>` + docxtest.P("", docxtest.R("top", "")) + docxtest.P("", docxtest.R("second", "")) + `</w:tc>` +
		`</w:tr><w:tr>` +
		`<w:tc><w:p/></w:tc>` +
		`<w:tc>` + docxtest.P("", docxtest.R("x", "")) + `</w:tc>` +
		`<w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>` +
		`</w:tr></w:tbl>`

	sections, _ := walk(t, docxtest.Fixture{Body: docxtest.Heading(1, "T") + tbl}, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	item := sections[0].Content[0].(*model.Table)

	require.Len(t, item.Rows, 2)
	assert.Len(t, item.Rows[0], 3)
	assert.True(t, strings.HasPrefix(item.Rows[0][0], "<b>"))
	assert.Equal(t, "", item.Rows[0][1])
	assert.Equal(t, "top\nsecond", markup.PlainText(item.Rows[0][2]))
	assert.Contains(t, item.Rows[0][2], markup.LineBreak)
	assert.Equal(t, []string{"", item.Rows[1][1], ""}, item.Rows[1])
	assert.Equal(t, "x", markup.PlainText(item.Rows[1][1]))
	assert.Equal(t, 3, item.ColCount())
}

func TestTableItem_HeaderRowsAndCellWidths(t *testing.T) {
	tbl := `<w:tbl>` +
		`<w:tr><w:trPr><w:tblHeader/></w:trPr>` +
		`<w:tc><w:tcPr><w:tcW w:w="2880" w:type="dxa"/></w:tcPr>` + docxtest.P("", docxtest.R("Name", "")) + `</w:tc>` +
		`<w:tc><w:tcPr><w:tcW w:w="1440" w:type="dxa"/><w:gridSpan w:val="2"/></w:tcPr>` + docxtest.P("", docxtest.R("Age", "")) + `</w:tc>` +
		`</w:tr>` +
		`<w:tr><w:tc>` + docxtest.P("", docxtest.R("a", "")) + `</w:tc><w:tc>` + docxtest.P("", docxtest.R("b", "")) + `</w:tc><w:tc>` + docxtest.P("", docxtest.R("c", "")) + `</w:tc></w:tr>` +
		`<w:tr><w:trPr><w:tblHeader/></w:trPr><w:tc>` + docxtest.P("", docxtest.R("late", "")) + `</w:tc></w:tr>` +
		`</w:tbl>`

	sections, _ := walk(t, docxtest.Fixture{Body: docxtest.Heading(1, "T") + tbl}, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	item := sections[0].Content[0].(*model.Table)

	// Only leading header rows repeat.
	assert.Equal(t, 1, item.HeaderRows)
	assert.Equal(t, []float64{144, 36, 36}, item.ColWidths)
}

func TestTableItem_PercentWidthsIgnored(t *testing.T) {
	tbl := `<w:tbl><w:tr>` +
		`<w:tc><w:tcPr><w:tcW w:w="2500" w:type="pct"/></w:tcPr>` + docxtest.P("", docxtest.R("a", "")) + `</w:tc>` +
		`<w:tc><w:tcPr><w:tcW w:w="2500" w:type="pct"/></w:tcPr>` + docxtest.P("", docxtest.R("b", "")) + `</w:tc>` +
		`</w:tr></w:tbl>`

	sections, _ := walk(t, docxtest.Fixture{Body: docxtest.Heading(1, "T") + tbl}, Options{Levels: []int{1}})
	require.Len(t, sections, 1)
	item := sections[0].Content[0].(*model.Table)

	assert.Empty(t, item.ColWidths)
	assert.Zero(t, item.HeaderRows)
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		ok    bool
	}{
		{"Heading 1", 1, true},
		{"Heading 3", 3, true},
		{"Heading 12", 12, true},
		{"Heading", 0, false},
		{"Heading X", 0, false},
		{"heading 1", 0, false},
		{"Normal", 0, false},
		{"Title", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := HeadingLevel(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}
