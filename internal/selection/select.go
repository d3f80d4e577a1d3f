// Package selection filters and redacts the CV items of a profile according to a generation request.
package selection

import "github.com/mycv/cvgen/internal/types"

// Selectable is implemented by every CV item category.
type Selectable[T any] interface {
	CVItemID() types.ItemID
	WithoutDescription() T
}

// Select returns the items chosen by inclusion, in the order of items.
// An unfiltered inclusion returns items unchanged. A filtered inclusion keeps only listed ids
// and drops the description of items whose spec has IncludeDescription set to false.
// Listed ids without a matching item are ignored; when an id is listed twice the first spec wins.
func Select[T Selectable[T]](items []T, inclusion types.Inclusion) []T {
	if !inclusion.IsFiltered() {
		return items
	}

	specs := inclusion.Specs()
	keep := make(map[types.ItemID]bool, len(specs))
	for _, spec := range specs {
		if _, seen := keep[spec.ID]; !seen {
			keep[spec.ID] = spec.IncludeDescription
		}
	}

	selected := make([]T, 0, len(keep))
	for _, item := range items {
		withDescription, ok := keep[item.CVItemID()]
		if !ok {
			continue
		}
		if !withDescription {
			item = item.WithoutDescription()
		}
		selected = append(selected, item)
	}
	return selected
}

// Selected holds the filtered content of all four categories.
type Selected struct {
	WorkExperiences []types.WorkExperience
	Education       []types.Education
	Projects        []types.Project
	Skills          []types.Skill
}

// Count returns the total number of selected items.
func (s Selected) Count() int {
	return len(s.WorkExperiences) + len(s.Education) + len(s.Projects) + len(s.Skills)
}

// Empty reports whether nothing was selected in any category.
func (s Selected) Empty() bool {
	return s.Count() == 0
}

// Apply runs Select over every category of the profile.
func Apply(profile *types.ProfileSnapshot, req types.GenerationRequest) Selected {
	return Selected{
		WorkExperiences: Select(profile.WorkExperiences, req.WorkExperience),
		Education:       Select(profile.Education, req.Education),
		Projects:        Select(profile.Projects, req.Projects),
		Skills:          Select(profile.Skills, req.Skills),
	}
}
