package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{".txt", ".md"} {
		path := filepath.Join(dir, "doc"+ext)
		require.NoError(t, os.WriteFile(path, []byte("第一条 本文です。"), 0o644))

		text, err := NewExtractor().Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "第一条 本文です。", text)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := NewExtractor().Extract("/tmp/doc.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DOC.TXT")
	require.NoError(t, os.WriteFile(path, []byte("本文"), 0o644))

	text, err := NewExtractor().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "本文", text)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := NewExtractor().Extract(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.pdf"))
	assert.True(t, IsSupported("a.DOCX"))
	assert.True(t, IsSupported("a.txt"))
	assert.True(t, IsSupported("a.md"))
	assert.False(t, IsSupported("a.xlsx"))
	assert.False(t, IsSupported("a"))
}

func TestParseDocumentXML(t *testing.T) {
	xml := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>第一段落</w:t></w:r><w:r><w:t>の続き</w:t></w:r></w:p>
    <w:p><w:r><w:t>第二段落</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := parseDocumentXML(strings.NewReader(xml))
	require.NoError(t, err)

	assert.Contains(t, text, "第一段落の続き")
	assert.Contains(t, text, "第二段落")
	// 段落境界は改行になる
	assert.True(t, strings.Index(text, "第一段落の続き") < strings.Index(text, "第二段落"))
	assert.Contains(t, text, "\n")
}
