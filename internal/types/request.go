package types

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Sentinel errors returned by profile and picture sources.
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileIncomplete   = errors.New("profile incomplete")
	ErrPictureNotFound     = errors.New("profile picture not found")
	ErrPictureAccessDenied = errors.New("profile picture access denied")
)

// InclusionSpec selects one item for rendering and controls whether its description is kept.
type InclusionSpec struct {
	ID                 ItemID `json:"id"`
	IncludeDescription bool   `json:"include_description"`
}

// Inclusion is the per-category selection of a generation request.
// The zero value is Unfiltered: every item is included with its description.
// A filtered inclusion with no specs selects nothing.
type Inclusion struct {
	filtered bool
	specs    []InclusionSpec
}

// Unfiltered returns an inclusion that keeps every item.
func Unfiltered() Inclusion {
	return Inclusion{}
}

// Filtered returns an inclusion that keeps only the listed items.
func Filtered(specs ...InclusionSpec) Inclusion {
	copied := make([]InclusionSpec, len(specs))
	copy(copied, specs)
	return Inclusion{filtered: true, specs: copied}
}

// IsFiltered reports whether the caller supplied an explicit list.
func (i Inclusion) IsFiltered() bool {
	return i.filtered
}

// Specs returns the explicit list. It is nil for an unfiltered inclusion.
func (i Inclusion) Specs() []InclusionSpec {
	if !i.filtered {
		return nil
	}
	out := make([]InclusionSpec, len(i.specs))
	copy(out, i.specs)
	return out
}

// GenerationRequest is one call into the CV generator.
type GenerationRequest struct {
	OwnerID  uuid.UUID
	StyleKey string
	// Locale selects date formats and translated labels. language.Und falls back to the account language.
	Locale          language.Tag
	WorkExperience  Inclusion
	Education       Inclusion
	Projects        Inclusion
	Skills          Inclusion
	TemplateOptions map[string]string
}

// FullyFiltered reports whether every category carries an explicit inclusion list.
func (r GenerationRequest) FullyFiltered() bool {
	return r.WorkExperience.IsFiltered() &&
		r.Education.IsFiltered() &&
		r.Projects.IsFiltered() &&
		r.Skills.IsFiltered()
}

// CompiledDocument is the output of a successful generation.
type CompiledDocument struct {
	Content   []byte
	FileName  string
	MediaType string
}
