package types

// DocumentModel is the renderer-neutral aggregate written as profile.json for the templates.
// Every entry's EndDate holds either a formatted date or the localized "present" label.
type DocumentModel struct {
	Language        string            `json:"language"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	JobTitle        string            `json:"jobTitle"`
	Bio             string            `json:"bio"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Address         string            `json:"address"`
	Birthday        string            `json:"birthday"`
	Picture         string            `json:"picture"`
	WorkExperiences []DocumentEntry   `json:"workExperiences"`
	Education       []DocumentEntry   `json:"education"`
	Projects        []DocumentEntry   `json:"projects"`
	Skills          []SkillGroup      `json:"skills"`
	TemplateOptions map[string]string `json:"templateOptions"`
}

// DocumentEntry is one dated entry in the work, education or project section.
type DocumentEntry struct {
	Title       string         `json:"title"`
	Location    string         `json:"location"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Institution string         `json:"institution"`
	Description string         `json:"description"`
	Links       []DocumentLink `json:"links"`
}

// DocumentLink is a project link as rendered.
type DocumentLink struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
}

// SkillGroup holds the names of all skills sharing a category, strongest first.
type SkillGroup struct {
	Category string   `json:"category"`
	Names    []string `json:"names"`
}
