// Package i18n provides the message catalogs used for localized labels and error messages.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var messageFiles embed.FS

// DefaultLanguage is used when no supported language matches.
var DefaultLanguage = language.English

// Catalog resolves message keys per language. It is immutable after New and safe for concurrent use.
type Catalog struct {
	supported []language.Tag
	matcher   language.Matcher
	messages  map[language.Tag]map[string]string
}

// New loads the embedded catalogs.
func New() (*Catalog, error) {
	entries, err := messageFiles.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("failed to list message catalogs: %w", err)
	}

	files := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		data, err := messageFiles.ReadFile(path.Join("messages", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read message catalog %s: %w", entry.Name(), err)
		}
		files[strings.TrimSuffix(entry.Name(), ".yaml")] = data
	}
	return NewFromYAML(files)
}

// NewFromYAML builds a catalog from YAML documents keyed by BCP 47 language tag.
// The catalog for DefaultLanguage is required.
func NewFromYAML(files map[string][]byte) (*Catalog, error) {
	c := &Catalog{messages: make(map[language.Tag]map[string]string, len(files))}

	for name, data := range files {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog language %q: %w", name, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}
		c.messages[tag] = messages
	}

	if _, ok := c.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("catalog for default language %s is missing", DefaultLanguage)
	}

	// The matcher falls back to the first tag, so the default language goes first.
	c.supported = append(c.supported, DefaultLanguage)
	for tag := range c.messages {
		if tag != DefaultLanguage {
			c.supported = append(c.supported, tag)
		}
	}
	rest := c.supported[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	c.matcher = language.NewMatcher(c.supported)
	return c, nil
}

// Supported returns the languages with a catalog, default first.
func (c *Catalog) Supported() []language.Tag {
	out := make([]language.Tag, len(c.supported))
	copy(out, c.supported)
	return out
}

// Resolve maps any tag to the closest supported language.
func (c *Catalog) Resolve(tag language.Tag) language.Tag {
	_, index, _ := c.matcher.Match(tag)
	return c.supported[index]
}

// Match resolves an Accept-Language header value. Malformed headers resolve to the default language.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, index, _ := c.matcher.Match(tags...)
	return c.supported[index]
}

// Translate returns the message for key in the language closest to tag.
// Missing keys fall back to the default language, then to the key itself.
func (c *Catalog) Translate(tag language.Tag, key string) string {
	if msg, ok := c.messages[c.Resolve(tag)][key]; ok {
		return msg
	}
	if msg, ok := c.messages[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}
