package rendering

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mycv/cvgen/internal/schemas"
	"github.com/mycv/cvgen/internal/styles"
	"github.com/mycv/cvgen/internal/types"
	docschemas "github.com/mycv/cvgen/schemas"
)

//go:embed templates
var embeddedTemplates embed.FS

// DataFileName is the file the templates read the document model from.
const DataFileName = "profile.json"

// PictureFile is the profile picture as it is written into the working directory.
type PictureFile struct {
	Name string
	Data []byte
}

// Workspace writes template files, picture and document model into a working directory.
// It holds no per-call state and is safe for concurrent use.
type Workspace struct {
	templates fs.FS
	schema    *schemas.Validator
}

// NewWorkspace uses the templates in dir, or the embedded templates when dir is empty.
func NewWorkspace(dir string) (*Workspace, error) {
	var templates fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, &TemplateError{Message: "embedded templates unavailable", Cause: err}
		}
		templates = sub
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, &TemplateError{Message: "template directory unavailable", Cause: err}
		}
		if !info.IsDir() {
			return nil, &TemplateError{Message: fmt.Sprintf("%s is not a directory", dir)}
		}
		templates = os.DirFS(dir)
	}

	schema, err := schemas.Compile("document", docschemas.Document)
	if err != nil {
		return nil, err
	}
	return &Workspace{templates: templates, schema: schema}, nil
}

// HasTemplate reports whether the style's entry point exists.
func (w *Workspace) HasTemplate(style styles.Style) bool {
	_, err := fs.Stat(w.templates, style.SourceFile())
	return err == nil
}

// Prepare fills dir with the template set, the picture and the serialized model.
// It returns the name of the source file to compile, relative to dir.
func (w *Workspace) Prepare(dir string, style styles.Style, model *types.DocumentModel, picture *PictureFile) (string, error) {
	source := style.SourceFile()
	if !w.HasTemplate(style) {
		return "", &TemplateError{Style: style.Key, Message: fmt.Sprintf("template %s not found", source)}
	}

	if err := w.copyTemplates(dir); err != nil {
		return "", err
	}

	if picture != nil {
		if picture.Name != filepath.Base(picture.Name) || picture.Name == DataFileName {
			return "", &RenderError{Message: fmt.Sprintf("invalid picture file name %q", picture.Name)}
		}
		if err := os.WriteFile(filepath.Join(dir, picture.Name), picture.Data, 0o600); err != nil {
			return "", &RenderError{Message: "failed to write profile picture", Cause: err}
		}
	}

	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return "", &RenderError{Message: "failed to serialize document model", Cause: err}
	}
	if err := w.schema.Validate(data); err != nil {
		return "", &RenderError{Message: "document model does not match schema", Cause: err}
	}
	if err := os.WriteFile(filepath.Join(dir, DataFileName), data, 0o600); err != nil {
		return "", &RenderError{Message: "failed to write document model", Cause: err}
	}

	return source, nil
}

func (w *Workspace) copyTemplates(dir string) error {
	err := fs.WalkDir(w.templates, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." || strings.HasPrefix(path.Base(p), ".") {
			if d.IsDir() && p != "." {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(dir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o700)
		}
		data, err := fs.ReadFile(w.templates, p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o600)
	})
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return &RenderError{Message: "failed to copy template " + pathErr.Path, Cause: pathErr.Err}
		}
		return &RenderError{Message: "failed to copy templates", Cause: err}
	}
	return nil
}
