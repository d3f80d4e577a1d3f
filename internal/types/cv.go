// Package types provides type definitions for the CV data shared across the generation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// ItemID identifies a work experience, education, project or skill record within its owning collection.
type ItemID int64

// WorkExperience is a single position in the owner's work history.
type WorkExperience struct {
	ID          ItemID     `json:"id" yaml:"id"`
	JobTitle    string     `json:"job_title" yaml:"job_title"`
	Company     string     `json:"company" yaml:"company"`
	Location    string     `json:"location" yaml:"location"`
	Start       time.Time  `json:"start" yaml:"start"`
	End         *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
	Description string     `json:"description" yaml:"description"`
}

// CVItemID returns the record id.
func (w WorkExperience) CVItemID() ItemID { return w.ID }

// WithoutDescription returns a copy with the description removed.
func (w WorkExperience) WithoutDescription() WorkExperience {
	w.Description = ""
	return w
}

// Education is a single degree or course of study.
type Education struct {
	ID          ItemID     `json:"id" yaml:"id"`
	Institution string     `json:"institution" yaml:"institution"`
	Location    string     `json:"location" yaml:"location"`
	DegreeName  string     `json:"degree_name" yaml:"degree_name"`
	Start       time.Time  `json:"start" yaml:"start"`
	End         *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
	Description string     `json:"description" yaml:"description"`
}

// CVItemID returns the record id.
func (e Education) CVItemID() ItemID { return e.ID }

// WithoutDescription returns a copy with the description removed.
func (e Education) WithoutDescription() Education {
	e.Description = ""
	return e
}

// ProjectLink is a typed link attached to a project (repository, website, document, ...).
type ProjectLink struct {
	URL         string `json:"url" yaml:"url"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Type        string `json:"type" yaml:"type"`
}

// Project is a side or professional project with optional links.
type Project struct {
	ID          ItemID        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Role        string        `json:"role" yaml:"role"`
	Description string        `json:"description" yaml:"description"`
	Start       time.Time     `json:"start" yaml:"start"`
	End         *time.Time    `json:"end,omitempty" yaml:"end,omitempty"`
	Links       []ProjectLink `json:"links,omitempty" yaml:"links,omitempty"`
}

// CVItemID returns the record id.
func (p Project) CVItemID() ItemID { return p.ID }

// WithoutDescription returns a copy with the description removed.
// The links slice is shared with the source record.
func (p Project) WithoutDescription() Project {
	p.Description = ""
	return p
}

// Skill is a named skill with a free-form category and a proficiency level.
type Skill struct {
	ID    ItemID `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Level int    `json:"level" yaml:"level"`
}

// CVItemID returns the record id.
func (s Skill) CVItemID() ItemID { return s.ID }

// WithoutDescription returns the skill unchanged; skills carry no description.
func (s Skill) WithoutDescription() Skill { return s }

// AccountDetails holds the personal data printed in the CV header.
// A profile whose details fail these tags is incomplete for generation.
type AccountDetails struct {
	FirstName   string    `json:"first_name" yaml:"first_name" validate:"required"`
	LastName    string    `json:"last_name" yaml:"last_name" validate:"required"`
	Email       string    `json:"email" yaml:"email" validate:"required,email"`
	Phone       string    `json:"phone" yaml:"phone" validate:"required"`
	Birthday    time.Time `json:"birthday" yaml:"birthday" validate:"required"`
	Street      string    `json:"street" yaml:"street" validate:"required"`
	HouseNumber string    `json:"house_number,omitempty" yaml:"house_number,omitempty"`
	Postcode    string    `json:"postcode" yaml:"postcode" validate:"required"`
	City        string    `json:"city" yaml:"city" validate:"required"`
	Country     string    `json:"country" yaml:"country"`
	Language    string    `json:"language" yaml:"language"`
}

// Validate checks the fields required to print the CV header.
func (d *AccountDetails) Validate() error {
	return validate.Struct(d)
}

// ProfileSnapshot bundles everything the generator reads about one owner.
// Account is nil when the owner never completed the account setup.
type ProfileSnapshot struct {
	OwnerID         uuid.UUID        `json:"owner_id" yaml:"owner_id"`
	JobTitle        string           `json:"job_title" yaml:"job_title"`
	Bio             string           `json:"bio" yaml:"bio"`
	PictureKey      string           `json:"picture_key" yaml:"picture_key"`
	Account         *AccountDetails  `json:"account,omitempty" yaml:"account,omitempty"`
	WorkExperiences []WorkExperience `json:"work_experiences" yaml:"work_experiences"`
	Education       []Education      `json:"education" yaml:"education"`
	Projects        []Project        `json:"projects" yaml:"projects"`
	Skills          []Skill          `json:"skills" yaml:"skills"`
}
