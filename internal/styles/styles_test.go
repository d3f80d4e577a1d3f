package styles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	all := r.Styles()
	require.Len(t, all, 2)
	assert.Equal(t, "modern", all[0].Key)
	assert.Equal(t, "talendo", all[1].Key)

	modern, ok := r.Lookup("modern")
	require.True(t, ok)
	assert.Empty(t, modern.Options)
	assert.Equal(t, "modern.typ", modern.SourceFile())
	assert.Equal(t, "pdf", modern.OutputExtension())
	assert.Equal(t, MediaTypePDF, modern.MediaType())

	talendo, ok := r.Lookup("talendo")
	require.True(t, ok)
	require.Len(t, talendo.Options, 1)
	assert.Equal(t, Option{
		Key:     "bannerBackground",
		NameKey: "cv.style.talendo.bannerBackground",
		Type:    OptionColor,
		Default: "#000000",
	}, talendo.Options[0])

	_, ok = r.Lookup("classic")
	assert.False(t, ok)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	talendo, _ := r.Lookup("talendo")
	talendo.Options[0].Default = "#FFFFFF"

	again, _ := r.Lookup("talendo")
	assert.Equal(t, "#000000", again.Options[0].Default)
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
	}{
		{name: "malformed yaml", catalog: "styles: [\n"},
		{name: "empty", catalog: "styles: []\n"},
		{name: "missing key", catalog: "styles:\n  - template: a\n"},
		{name: "missing template", catalog: "styles:\n  - key: a\n"},
		{name: "unsupported format", catalog: "styles:\n  - key: a\n    template: a\n    format: docx\n"},
		{name: "duplicate style", catalog: "styles:\n  - key: a\n    template: a\n  - key: a\n    template: b\n"},
		{name: "unknown option type", catalog: `styles:
  - key: a
    template: a
    options:
      - key: size
        type: NUMBER
        default: "1"
`},
		{name: "duplicate option", catalog: `styles:
  - key: a
    template: a
    options:
      - {key: c, type: COLOR, default: "#000000"}
      - {key: c, type: COLOR, default: "#000000"}
`},
		{name: "invalid default", catalog: `styles:
  - key: a
    template: a
    options:
      - {key: c, type: COLOR, default: "black"}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry([]byte(tt.catalog))
			require.Error(t, err)
			var catalogErr *CatalogError
			assert.True(t, errors.As(err, &catalogErr), "got %T", err)
		})
	}
}

func TestStyle_MediaType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "", want: "application/pdf"},
		{format: "pdf", want: "application/pdf"},
		{format: "png", want: "image/png"},
		{format: "svg", want: "image/svg+xml"},
		{format: "docx", want: ""},
	}
	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, Style{Key: "a", Template: "a", Format: tt.format}.MediaType())
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	r, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Len(t, r.Styles(), 2)

	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`styles:
  - key: plain
    template: plain
    options:
      - {key: footer, type: text, default: "References on request"}
`), 0o644))

	r, err = LoadRegistry(path)
	require.NoError(t, err)
	plain, ok := r.Lookup("plain")
	require.True(t, ok)
	assert.Equal(t, OptionText, plain.Options[0].Type)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
