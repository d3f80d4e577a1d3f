// Package styles provides the catalog of CV styles and validation of their template options.
package styles

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultCatalog []byte

// MediaTypePDF is the media type of the default output format.
const MediaTypePDF = "application/pdf"

// mediaTypes holds the output formats the compiler can produce.
var mediaTypes = map[string]string{
	"pdf": MediaTypePDF,
	"png": "image/png",
	"svg": "image/svg+xml",
}

// Style is a named document template plus its option schema.
type Style struct {
	Key            string   `yaml:"key" json:"key"`
	Template       string   `yaml:"template" json:"template"`
	Format         string   `yaml:"format" json:"format"`
	NameKey        string   `yaml:"name" json:"name"`
	DescriptionKey string   `yaml:"description" json:"description"`
	Options        []Option `yaml:"options" json:"options"`
}

// SourceFile is the template entry point inside the working directory.
func (s Style) SourceFile() string {
	return s.Template + ".typ"
}

// OutputExtension is the file extension of the compiled document.
func (s Style) OutputExtension() string {
	if s.Format == "" {
		return "pdf"
	}
	return s.Format
}

// MediaType is the media type of the compiled document, or "" for a format the compiler cannot produce.
func (s Style) MediaType() string {
	return mediaTypes[s.OutputExtension()]
}

// Option returns the declared option with the given key.
func (s Style) Option(key string) (Option, bool) {
	for _, o := range s.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

func (s Style) clone() Style {
	if s.Options != nil {
		s.Options = append([]Option(nil), s.Options...)
	}
	return s
}

type catalogFile struct {
	Styles []Style `yaml:"styles"`
}

// Registry is the immutable table of supported styles.
type Registry struct {
	styles []Style
	byKey  map[string]int
}

// NewRegistry parses a YAML catalog.
func NewRegistry(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &CatalogError{Message: "failed to parse style catalog", Cause: err}
	}
	if len(file.Styles) == 0 {
		return nil, &CatalogError{Message: "style catalog is empty"}
	}

	r := &Registry{byKey: make(map[string]int, len(file.Styles))}
	for _, s := range file.Styles {
		if err := checkStyle(s); err != nil {
			return nil, err
		}
		if _, dup := r.byKey[s.Key]; dup {
			return nil, &CatalogError{Message: fmt.Sprintf("duplicate style %q", s.Key)}
		}
		r.byKey[s.Key] = len(r.styles)
		r.styles = append(r.styles, s.clone())
	}
	return r, nil
}

// LoadRegistry reads a catalog from path, or the embedded catalog when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogError{Message: "failed to read style catalog " + path, Cause: err}
	}
	return NewRegistry(data)
}

// Default returns a registry built from the embedded catalog.
func Default() (*Registry, error) {
	return NewRegistry(defaultCatalog)
}

func checkStyle(s Style) error {
	if strings.TrimSpace(s.Key) == "" {
		return &CatalogError{Message: "style without key"}
	}
	if strings.TrimSpace(s.Template) == "" {
		return &CatalogError{Message: fmt.Sprintf("style %q has no template", s.Key)}
	}
	if s.MediaType() == "" {
		return &CatalogError{Message: fmt.Sprintf("style %q has unsupported format %q", s.Key, s.Format)}
	}

	seen := make(map[string]bool, len(s.Options))
	for _, o := range s.Options {
		if o.Key == "" {
			return &CatalogError{Message: fmt.Sprintf("style %q has an option without key", s.Key)}
		}
		if seen[o.Key] {
			return &CatalogError{Message: fmt.Sprintf("style %q declares option %q twice", s.Key, o.Key)}
		}
		seen[o.Key] = true

		if !o.Type.Known() {
			return &CatalogError{Message: fmt.Sprintf("style %q option %q has unknown type %q", s.Key, o.Key, o.Type)}
		}
		if err := o.Type.Check(o.Default); err != nil {
			return &CatalogError{Message: fmt.Sprintf("style %q option %q has an invalid default", s.Key, o.Key), Cause: err}
		}
	}
	return nil
}

// Lookup returns a copy of the style with the given key.
func (r *Registry) Lookup(key string) (Style, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Style{}, false
	}
	return r.styles[i].clone(), true
}

// Styles returns copies of all styles in catalog order.
func (r *Registry) Styles() []Style {
	out := make([]Style, len(r.styles))
	for i, s := range r.styles {
		out[i] = s.clone()
	}
	return out
}
