package styles

import (
	"fmt"
	"regexp"
	"strings"
)

// OptionType is the closed set of value types a style option can declare.
type OptionType string

const (
	// OptionColor is a hex color, "#RRGGBB" or "#RRGGBBAA".
	OptionColor OptionType = "COLOR"
	// OptionText is any non-empty string.
	OptionText OptionType = "TEXT"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

type optionCheck struct {
	format string
	valid  func(value string) bool
}

// checks holds exactly one validation function per option type.
var checks = map[OptionType]optionCheck{
	OptionColor: {
		format: "hex color #RRGGBB or #RRGGBBAA",
		valid:  hexColor.MatchString,
	},
	OptionText: {
		format: "non-empty text",
		valid:  func(value string) bool { return value != "" },
	},
}

// Known reports whether t is a supported option type.
func (t OptionType) Known() bool {
	_, ok := checks[t]
	return ok
}

// Check validates a value against the type.
func (t OptionType) Check(value string) error {
	c, ok := checks[t]
	if !ok {
		return fmt.Errorf("unknown option type %q", t)
	}
	if !c.valid(value) {
		return fmt.Errorf("expected %s", c.format)
	}
	return nil
}

// UnmarshalText rejects unknown option types when a catalog is decoded.
func (t *OptionType) UnmarshalText(text []byte) error {
	candidate := OptionType(strings.ToUpper(strings.TrimSpace(string(text))))
	if !candidate.Known() {
		return fmt.Errorf("unknown option type %q", string(text))
	}
	*t = candidate
	return nil
}

// Option is one customizable setting of a style.
type Option struct {
	Key     string     `yaml:"key" json:"key"`
	NameKey string     `yaml:"name" json:"name"`
	Type    OptionType `yaml:"type" json:"type"`
	Default string     `yaml:"default" json:"default"`
}
