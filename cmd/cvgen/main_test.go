package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "6f1c2a8e-4b1d-4c6e-9a51-2f0d7c3e9b10"

// setupEnv points the CLI at a temp SQLite store and a shell script standing in for typst
// that copies profile.json to the requested output.
func setupEnv(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "typst")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp profile.json \"$3\"\n"), 0o755))
	workDir := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(workDir, 0o755))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("CVGEN_SQLITE_PATH", filepath.Join(dir, "cv.db"))
	t.Setenv("CVGEN_TYPST_BINARY", script)
	t.Setenv("CVGEN_WORK_DIR", workDir)
	t.Setenv("CVGEN_COMPILE_TIMEOUT", "10s")
	t.Setenv("CVGEN_PICTURE_BACKEND", "none")
	t.Setenv("CVGEN_LOG_FILE", filepath.Join(dir, "cvgen.log"))
	t.Setenv("CVGEN_LOG_LEVEL", "info")
	t.Setenv("CVGEN_LOG_FORMAT", "text")
	t.Setenv("CVGEN_TEMPLATE_DIR", "")
	t.Setenv("CVGEN_STYLE_CATALOG", "")
	t.Setenv("JWT_SECRET", "test-secret-key-for-jwt-signing-minimum-32-bytes")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_ImportAndGenerate(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, "migrate")
	require.NoError(t, err)

	out, err := execute(t, "import", "--file", "testdata/profile.yaml")
	require.NoError(t, err)
	assert.Equal(t, testOwner, strings.TrimSpace(out))

	target := filepath.Join(dir, "out", "cv.pdf")
	out, err = execute(t, "generate",
		"--owner", testOwner,
		"--style", "talendo",
		"--include-work", "1",
		"--include-skills", "1,3",
		"--no-description", "1",
		"--option", "bannerBackground=#1D3557",
		"--lang", "en",
		"-o", target,
	)
	require.NoError(t, err, out)
	assert.Equal(t, target, strings.TrimSpace(out))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var model types.DocumentModel
	require.NoError(t, json.Unmarshal(data, &model))

	assert.Equal(t, "Ada", model.FirstName)
	require.Len(t, model.WorkExperiences, 1)
	assert.Empty(t, model.WorkExperiences[0].Description)
	assert.Equal(t, "Today", model.WorkExperiences[0].EndDate)
	assert.Len(t, model.Education, 1, "education was not filtered")
	assert.Equal(t, []types.SkillGroup{{Category: "Languages", Names: []string{"Go", "Typst"}}}, model.Skills)
	assert.Equal(t, "#1D3557", model.TemplateOptions["bannerBackground"])

	entries, err := os.ReadDir(filepath.Join(dir, "work"))
	require.NoError(t, err)
	assert.Empty(t, entries, "working directories are removed")
}

func TestCLI_GenerateReportsLocalizedFailure(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "migrate")
	require.NoError(t, err)

	_, err = execute(t, "generate", "--owner", uuid.NewString(), "--style", "modern", "--lang", "de")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile error: not_found")
}

func TestCLI_GenerateRejectsUnknownStyle(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "migrate")
	require.NoError(t, err)
	_, err = execute(t, "import", "--file", "testdata/profile.yaml")
	require.NoError(t, err)

	_, err = execute(t, "generate", "--owner", testOwner, "--style", "baroque")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown style")
}

func TestCLI_StylesJSON(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "styles", "--json", "--lang", "de")
	require.NoError(t, err)

	var listing []styleListing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing, 2)
	assert.Equal(t, "modern", listing[0].Key)
	assert.NotNil(t, listing[0].Options)
	assert.Equal(t, "Bannerhintergrund", listing[1].Options[0].Name)
}

func TestCLI_StylesTable(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "styles")
	require.NoError(t, err)
	assert.Contains(t, out, "CV STYLES")
	assert.Contains(t, out, "talendo")
}

func TestCLI_Token(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "token", "--owner", testOwner)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)

	_, err = execute(t, "token", "--owner", "not-a-uuid")
	assert.Error(t, err)
}

func TestCLI_StoreRequired(t *testing.T) {
	setupEnv(t)
	t.Setenv("CVGEN_SQLITE_PATH", "")

	_, err := execute(t, "migrate")
	assert.ErrorIs(t, err, errNoStore)
}

func TestBuildRequest(t *testing.T) {
	f := &generateFlags{}
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&f.owner, "owner", "", "")
	cmd.Flags().StringVar(&f.style, "style", "", "")
	cmd.Flags().StringVar(&f.work, "include-work", "", "")
	cmd.Flags().StringVar(&f.education, "include-education", "", "")
	cmd.Flags().StringVar(&f.projects, "include-projects", "", "")
	cmd.Flags().StringVar(&f.skills, "include-skills", "", "")
	cmd.Flags().StringVar(&f.noDescription, "no-description", "", "")
	cmd.Flags().StringVar(&f.lang, "lang", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{
		"--owner", testOwner,
		"--style", "modern",
		"--include-work", "3, 1",
		"--include-education", "",
		"--no-description", "3",
		"--lang", "fr-CH",
	}))

	req, err := buildRequest(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, testOwner, req.OwnerID.String())
	assert.Equal(t, []types.InclusionSpec{
		{ID: 3, IncludeDescription: false},
		{ID: 1, IncludeDescription: true},
	}, req.WorkExperience.Specs())
	assert.True(t, req.Education.IsFiltered())
	assert.Empty(t, req.Education.Specs())
	assert.False(t, req.Projects.IsFiltered())
	assert.False(t, req.Skills.IsFiltered())
	assert.Equal(t, "fr-CH", req.Locale.String())
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = parseIDs("1,,2 ")
	require.NoError(t, err)
	assert.Equal(t, []types.ItemID{1, 2}, ids)

	for _, bad := range []string{"x", "0", "-4", "1.5"} {
		_, err := parseIDs(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseProfile(t *testing.T) {
	data, err := os.ReadFile("testdata/profile.yaml")
	require.NoError(t, err)

	profile, err := parseProfile(data)
	require.NoError(t, err)
	assert.Equal(t, testOwner, profile.OwnerID.String())
	require.NotNil(t, profile.Account)
	assert.NoError(t, profile.Account.Validate())
	assert.Equal(t, 1990, profile.Account.Birthday.Year())
	require.Len(t, profile.WorkExperiences, 2)
	assert.Nil(t, profile.WorkExperiences[0].End)
	require.NotNil(t, profile.WorkExperiences[1].End)
	require.Len(t, profile.Projects[0].Links, 1)
	assert.Equal(t, "REPOSITORY", profile.Projects[0].Links[0].Type)
}

func TestParseProfile_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":  "owner_id: " + testOwner + "\nnickname: ada\n",
		"duplicate id": "skills:\n  - id: 1\n    name: Go\n  - id: 1\n    name: Rust\n",
		"zero id":      "education:\n  - id: 0\n    institution: ETH\n",
		"bad date":     "work_experiences:\n  - id: 1\n    start: yesterday\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseProfile([]byte(doc))
			assert.Error(t, err)
		})
	}
}
