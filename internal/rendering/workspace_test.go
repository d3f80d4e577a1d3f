package rendering

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mycv/cvgen/internal/styles"
	"github.com/mycv/cvgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() *types.DocumentModel {
	return &types.DocumentModel{
		Language:  "en",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+41 79 000 00 00",
		Address:   "Main Street 1, 3000 Bern",
		Birthday:  "03.02.1990",
		Picture:   "profile.png",
		WorkExperiences: []types.DocumentEntry{{
			Title: "Engineer", StartDate: "01.2020", EndDate: "Today", Links: []types.DocumentLink{},
		}},
		Education:       []types.DocumentEntry{},
		Projects:        []types.DocumentEntry{},
		Skills:          []types.SkillGroup{{Category: "lang", Names: []string{"Go"}}},
		TemplateOptions: map[string]string{"bannerBackground": "#000000"},
	}
}

func TestPrepare_EmbeddedTemplates(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)

	dir := t.TempDir()
	source, err := ws.Prepare(dir, styles.Style{Key: "talendo", Template: "talendo"}, validModel(),
		&PictureFile{Name: "profile.png", Data: []byte("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "talendo.typ", source)

	for _, name := range []string{"common.typ", "modern.typ", "talendo.typ", "profile.png", DataFileName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	var decoded types.DocumentModel
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *validModel(), decoded)

	picture, err := os.ReadFile(filepath.Join(dir, "profile.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(picture))
}

func TestPrepare_WithoutPicture(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)

	model := validModel()
	model.Picture = ""
	dir := t.TempDir()
	_, err = ws.Prepare(dir, styles.Style{Key: "modern", Template: "modern"}, model, nil)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "profile.png"))
}

func TestPrepare_MissingTemplate(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = ws.Prepare(dir, styles.Style{Key: "classic", Template: "classic"}, validModel(), nil)
	var templateErr *TemplateError
	require.True(t, errors.As(err, &templateErr))
	assert.Equal(t, "classic", templateErr.Style)
	assert.Contains(t, err.Error(), "classic.typ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when the template is missing")
}

func TestPrepare_ModelFailingSchema(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)

	model := validModel()
	model.WorkExperiences[0].EndDate = ""

	dir := t.TempDir()
	_, err = ws.Prepare(dir, styles.Style{Key: "modern", Template: "modern"}, model, nil)
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.NoFileExists(t, filepath.Join(dir, DataFileName))
}

func TestPrepare_RejectsPictureOutsideDir(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)

	_, err = ws.Prepare(t.TempDir(), styles.Style{Key: "modern", Template: "modern"}, validModel(),
		&PictureFile{Name: "../profile.png", Data: []byte("x")})
	var renderErr *RenderError
	assert.True(t, errors.As(err, &renderErr))
}

func TestNewWorkspace_TemplateDirectory(t *testing.T) {
	templates := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(templates, "plain.typ"), []byte("= CV"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(templates, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templates, "fonts", "x.otf"), []byte("font"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(templates, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templates, ".git", "HEAD"), []byte("ref"), 0o644))

	ws, err := NewWorkspace(templates)
	require.NoError(t, err)
	assert.True(t, ws.HasTemplate(styles.Style{Template: "plain"}))
	assert.False(t, ws.HasTemplate(styles.Style{Template: "modern"}))

	dir := t.TempDir()
	source, err := ws.Prepare(dir, styles.Style{Key: "plain", Template: "plain"}, validModel(), nil)
	require.NoError(t, err)
	assert.Equal(t, "plain.typ", source)
	assert.FileExists(t, filepath.Join(dir, "fonts", "x.otf"))
	assert.NoDirExists(t, filepath.Join(dir, ".git"))
}

func TestNewWorkspace_InvalidDirectory(t *testing.T) {
	_, err := NewWorkspace(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewWorkspace(file)
	assert.Error(t, err)
}

func TestEmbeddedTemplates_CoverDefaultStyles(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)

	registry, err := styles.Default()
	require.NoError(t, err)
	for _, s := range registry.Styles() {
		assert.True(t, ws.HasTemplate(s), "style %s has no template", s.Key)
	}
}
