package extract

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docsplit/docx"
	"github.com/tsawler/docsplit/internal/docxtest"
)

type fakeParts map[string][]byte

func (f fakeParts) Part(id string) ([]byte, error) {
	if data, ok := f[id]; ok {
		return data, nil
	}
	return nil, docx.ErrRelationshipNotFound
}

func TestNewImageStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")

	store, err := NewImageStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestImageStore_Save(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(docxtest.PNG(10, 6))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.Len(t, strings.TrimSuffix(filepath.Base(path), ".png"), 32)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 6, cfg.Height)

	other, err := store.Save(docxtest.PNG(2, 2))
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestImageStore_SaveUndecodable(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	_, err = store.Save([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndecodableImage))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file should be written for undecodable data")
}

func TestImages(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	parts := fakeParts{
		"rId1": docxtest.PNG(3, 3),
		"rId2": []byte("garbage"),
		"rId4": docxtest.PNG(5, 5),
	}
	p := docx.Paragraph{Runs: []docx.Run{
		{Text: "a", ImageRefs: []string{"rId1", "rId2"}},
		{Text: "b", ImageRefs: []string{"rId3", "rId4"}},
	}}

	paths := Images(p, parts, store)
	require.Len(t, paths, 2)

	first, err := os.Open(paths[0])
	require.NoError(t, err)
	defer first.Close()
	cfg, err := png.DecodeConfig(first)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Width, "images keep encounter order")
}

func TestImages_NoPictures(t *testing.T) {
	p := docx.Paragraph{Runs: []docx.Run{{Text: "just text"}}}
	assert.Empty(t, Images(p, fakeParts{}, nil))
}
