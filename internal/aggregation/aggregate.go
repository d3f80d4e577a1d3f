// Package aggregation builds the renderer-neutral document model from selected profile content.
package aggregation

import (
	"sort"
	"strings"
	"time"

	"github.com/mycv/cvgen/internal/selection"
	"github.com/mycv/cvgen/internal/types"
	"golang.org/x/text/language"
)

// TodayKey is the message key of the label used for entries without an end date.
const TodayKey = "date.today"

// Date layouts are the same for every locale; only the "present" label is translated.
const (
	ShortDateLayout = "01.2006"
	BirthdayLayout  = "02.01.2006"
)

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(tag language.Tag, key string) string
}

// Input is everything Aggregate reads.
type Input struct {
	Locale          language.Tag
	Profile         *types.ProfileSnapshot
	Selected        selection.Selected
	Picture         string
	TemplateOptions map[string]string
}

// Aggregate converts the selected content into a DocumentModel.
// The profile must carry complete account details; the caller checks this beforehand.
func Aggregate(tr Translator, in Input) *types.DocumentModel {
	f := formatter{
		layout: ShortDateLayout,
		today:  tr.Translate(in.Locale, TodayKey),
	}
	account := in.Profile.Account
	base, _ := in.Locale.Base()

	model := &types.DocumentModel{
		Language:        base.String(),
		FirstName:       account.FirstName,
		LastName:        account.LastName,
		JobTitle:        in.Profile.JobTitle,
		Bio:             in.Profile.Bio,
		Email:           account.Email,
		Phone:           account.Phone,
		Address:         FormatAddress(account),
		Birthday:        account.Birthday.Format(BirthdayLayout),
		Picture:         in.Picture,
		WorkExperiences: make([]types.DocumentEntry, 0, len(in.Selected.WorkExperiences)),
		Education:       make([]types.DocumentEntry, 0, len(in.Selected.Education)),
		Projects:        make([]types.DocumentEntry, 0, len(in.Selected.Projects)),
		Skills:          GroupSkills(in.Selected.Skills),
		TemplateOptions: in.TemplateOptions,
	}
	if model.TemplateOptions == nil {
		model.TemplateOptions = map[string]string{}
	}

	for _, w := range in.Selected.WorkExperiences {
		model.WorkExperiences = append(model.WorkExperiences, types.DocumentEntry{
			Title:       w.JobTitle,
			Location:    w.Location,
			StartDate:   f.date(w.Start),
			EndDate:     f.end(w.End),
			Institution: w.Company,
			Description: w.Description,
			Links:       []types.DocumentLink{},
		})
	}

	for _, e := range in.Selected.Education {
		model.Education = append(model.Education, types.DocumentEntry{
			Title:       e.DegreeName,
			Location:    e.Location,
			StartDate:   f.date(e.Start),
			EndDate:     f.end(e.End),
			Institution: e.Institution,
			Description: e.Description,
			Links:       []types.DocumentLink{},
		})
	}

	for _, p := range in.Selected.Projects {
		links := make([]types.DocumentLink, 0, len(p.Links))
		for _, l := range p.Links {
			links = append(links, types.DocumentLink{URL: l.URL, DisplayName: l.DisplayName, Type: l.Type})
		}
		model.Projects = append(model.Projects, types.DocumentEntry{
			Title:       p.Name,
			StartDate:   f.date(p.Start),
			EndDate:     f.end(p.End),
			Institution: p.Role,
			Description: p.Description,
			Links:       links,
		})
	}

	return model
}

type formatter struct {
	layout string
	today  string
}

func (f formatter) date(t time.Time) string {
	return t.Format(f.layout)
}

func (f formatter) end(t *time.Time) string {
	if t == nil {
		return f.today
	}
	return t.Format(f.layout)
}

// GroupSkills buckets skills by type in order of first appearance.
// Names within a bucket are ordered by level, highest first; equal levels keep their input order.
func GroupSkills(skills []types.Skill) []types.SkillGroup {
	var order []string
	buckets := make(map[string][]types.Skill)
	for _, s := range skills {
		if _, ok := buckets[s.Type]; !ok {
			order = append(order, s.Type)
		}
		buckets[s.Type] = append(buckets[s.Type], s)
	}

	groups := make([]types.SkillGroup, 0, len(order))
	for _, category := range order {
		members := buckets[category]
		sort.SliceStable(members, func(i, j int) bool { return members[i].Level > members[j].Level })

		names := make([]string, len(members))
		for i, s := range members {
			names[i] = s.Name
		}
		groups = append(groups, types.SkillGroup{Category: category, Names: names})
	}
	return groups
}

// FormatAddress renders "street[ houseNumber], postcode city".
func FormatAddress(d *types.AccountDetails) string {
	var b strings.Builder
	b.WriteString(d.Street)
	if n := strings.TrimSpace(d.HouseNumber); n != "" {
		b.WriteString(" ")
		b.WriteString(n)
	}
	b.WriteString(", ")
	b.WriteString(d.Postcode)
	b.WriteString(" ")
	b.WriteString(d.City)
	return b.String()
}
