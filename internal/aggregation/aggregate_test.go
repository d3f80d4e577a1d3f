package aggregation

import (
	"testing"
	"time"

	"github.com/mycv/cvgen/internal/selection"
	"github.com/mycv/cvgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type mapTranslator map[string]string

func (m mapTranslator) Translate(tag language.Tag, key string) string {
	base, _ := tag.Base()
	if msg, ok := m[base.String()+":"+key]; ok {
		return msg
	}
	return key
}

var translator = mapTranslator{
	"en:date.today": "Today",
	"de:date.today": "Heute",
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 15, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func testProfile() *types.ProfileSnapshot {
	return &types.ProfileSnapshot{
		JobTitle: "Software Engineer",
		Bio:      "Builds reliable systems.",
		Account: &types.AccountDetails{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			Phone:       "+41 79 000 00 00",
			Birthday:    time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC),
			Street:      "Bahnhofstrasse",
			HouseNumber: "12a",
			Postcode:    "8001",
			City:        "Zurich",
		},
	}
}

func TestAggregate_PersonalFields(t *testing.T) {
	model := Aggregate(translator, Input{
		Locale:  language.German,
		Profile: testProfile(),
		Picture: "profile.jpg",
	})

	assert.Equal(t, "de", model.Language)
	assert.Equal(t, "Ada", model.FirstName)
	assert.Equal(t, "Lovelace", model.LastName)
	assert.Equal(t, "Software Engineer", model.JobTitle)
	assert.Equal(t, "Builds reliable systems.", model.Bio)
	assert.Equal(t, "Bahnhofstrasse 12a, 8001 Zurich", model.Address)
	assert.Equal(t, "03.02.1990", model.Birthday)
	assert.Equal(t, "profile.jpg", model.Picture)
	assert.NotNil(t, model.TemplateOptions)
	assert.NotNil(t, model.WorkExperiences)
	assert.NotNil(t, model.Skills)
}

func TestAggregate_EndDates(t *testing.T) {
	sel := selection.Selected{
		WorkExperiences: []types.WorkExperience{
			{JobTitle: "Lead", Company: "Globex", Location: "Bern", Start: month(2021, 6), Description: "current"},
			{JobTitle: "Engineer", Company: "ACME", Location: "Basel", Start: month(2019, 1), End: ptr(month(2021, 5))},
		},
		Education: []types.Education{
			{DegreeName: "MSc", Institution: "ETH", Location: "Zurich", Start: month(2017, 9), End: ptr(month(2019, 2))},
		},
		Projects: []types.Project{
			{Name: "cvgen", Role: "Maintainer", Start: month(2024, 3), Links: []types.ProjectLink{
				{URL: "https://github.com/mycv/cvgen", DisplayName: "Source", Type: "GITHUB"},
			}},
		},
	}

	t.Run("german", func(t *testing.T) {
		model := Aggregate(translator, Input{Locale: language.German, Profile: testProfile(), Selected: sel})

		require.Len(t, model.WorkExperiences, 2)
		current := model.WorkExperiences[0]
		assert.Equal(t, "Lead", current.Title)
		assert.Equal(t, "Globex", current.Institution)
		assert.Equal(t, "06.2021", current.StartDate)
		assert.Equal(t, "Heute", current.EndDate)
		assert.Equal(t, "current", current.Description)

		past := model.WorkExperiences[1]
		assert.Equal(t, "05.2021", past.EndDate)
		assert.NotEqual(t, "Heute", past.EndDate)

		require.Len(t, model.Education, 1)
		assert.Equal(t, "MSc", model.Education[0].Title)
		assert.Equal(t, "ETH", model.Education[0].Institution)
		assert.Equal(t, "02.2019", model.Education[0].EndDate)

		require.Len(t, model.Projects, 1)
		project := model.Projects[0]
		assert.Equal(t, "cvgen", project.Title)
		assert.Equal(t, "Maintainer", project.Institution)
		assert.Empty(t, project.Location)
		assert.Equal(t, "Heute", project.EndDate)
		assert.Equal(t, []types.DocumentLink{
			{URL: "https://github.com/mycv/cvgen", DisplayName: "Source", Type: "GITHUB"},
		}, project.Links)
	})

	t.Run("english", func(t *testing.T) {
		model := Aggregate(translator, Input{Locale: language.English, Profile: testProfile(), Selected: sel})
		assert.Equal(t, "Today", model.WorkExperiences[0].EndDate)
		assert.Equal(t, "06.2021", model.WorkExperiences[0].StartDate)
		assert.Equal(t, "05.2021", model.WorkExperiences[1].EndDate)
	})
}

func TestAggregate_NoEntryHasEmptyEndDate(t *testing.T) {
	sel := selection.Selected{
		WorkExperiences: []types.WorkExperience{{Start: month(2020, 1)}, {Start: month(2020, 1), End: ptr(month(2020, 2))}},
		Education:       []types.Education{{Start: month(2020, 1)}},
		Projects:        []types.Project{{Start: month(2020, 1)}},
	}
	model := Aggregate(translator, Input{Locale: language.French, Profile: testProfile(), Selected: sel})

	var entries []types.DocumentEntry
	entries = append(entries, model.WorkExperiences...)
	entries = append(entries, model.Education...)
	entries = append(entries, model.Projects...)
	for _, e := range entries {
		assert.NotEmpty(t, e.EndDate)
		assert.NotNil(t, e.Links)
	}
}

func TestGroupSkills(t *testing.T) {
	groups := GroupSkills([]types.Skill{
		{Name: "A", Type: "type1", Level: 50},
		{Name: "B", Type: "type1", Level: 90},
		{Name: "C", Type: "type2", Level: 10},
	})

	assert.Equal(t, []types.SkillGroup{
		{Category: "type1", Names: []string{"B", "A"}},
		{Category: "type2", Names: []string{"C"}},
	}, groups)
}

func TestGroupSkills_StableAndCaseSensitive(t *testing.T) {
	groups := GroupSkills([]types.Skill{
		{Name: "Go", Type: "Lang", Level: 80},
		{Name: "Rust", Type: "Lang", Level: 80},
		{Name: "Zig", Type: "lang", Level: 20},
		{Name: "C", Type: "Lang", Level: 80},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "Lang", groups[0].Category)
	assert.Equal(t, []string{"Go", "Rust", "C"}, groups[0].Names)
	assert.Equal(t, "lang", groups[1].Category)
}

func TestGroupSkills_Empty(t *testing.T) {
	groups := GroupSkills(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name        string
		houseNumber string
		want        string
	}{
		{name: "with house number", houseNumber: "7", want: "Main Street 7, 3000 Bern"},
		{name: "without house number", houseNumber: "", want: "Main Street, 3000 Bern"},
		{name: "blank house number", houseNumber: "  ", want: "Main Street, 3000 Bern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAddress(&types.AccountDetails{
				Street: "Main Street", HouseNumber: tt.houseNumber, Postcode: "3000", City: "Bern",
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_DateFormatIsLocaleIndependent(t *testing.T) {
	sel := selection.Selected{
		WorkExperiences: []types.WorkExperience{
			{JobTitle: "Lead", Start: month(2021, 6)},
			{JobTitle: "Engineer", Start: month(2019, 1), End: ptr(month(2021, 5))},
		},
	}
	for _, tag := range []language.Tag{language.English, language.BritishEnglish, language.German, language.Italian, language.French} {
		t.Run(tag.String(), func(t *testing.T) {
			model := Aggregate(translator, Input{Locale: tag, Profile: testProfile(), Selected: sel})
			assert.Equal(t, "06.2021", model.WorkExperiences[0].StartDate)
			assert.Equal(t, "05.2021", model.WorkExperiences[1].EndDate)
		})
	}
}
