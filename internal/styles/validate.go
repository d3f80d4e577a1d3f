package styles

import "sort"

// FieldPrefix prefixes the field name of every option error.
const FieldPrefix = "templateOptions"

// Validate checks requested against the options declared by style and returns the resolved map:
// every declared option present, defaults filled in. Unknown keys and values failing their type are
// rejected. Validating an already resolved map returns an equal map.
func Validate(style Style, requested map[string]string) (map[string]string, error) {
	var problems []FieldError

	if len(style.Options) == 0 && len(requested) > 0 {
		problems = append(problems, FieldError{
			Field:   FieldPrefix,
			Problem: ProblemUnsupported,
			Message: "style " + style.Key + " has no template options",
		})
	}

	for key, value := range requested {
		option, ok := style.Option(key)
		if !ok {
			problems = append(problems, FieldError{
				Field:   FieldPrefix + "." + key,
				Problem: ProblemUnknown,
				Message: "unknown option " + key,
			})
			continue
		}
		if err := option.Type.Check(value); err != nil {
			problems = append(problems, FieldError{
				Field:   FieldPrefix + "." + key,
				Problem: ProblemFormat,
				Message: err.Error(),
			})
		}
	}

	if len(problems) > 0 {
		sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
		return nil, &ValidationError{Style: style.Key, Errors: problems}
	}

	resolved := make(map[string]string, len(style.Options))
	for _, option := range style.Options {
		if value, ok := requested[option.Key]; ok {
			resolved[option.Key] = value
		} else {
			resolved[option.Key] = option.Default
		}
	}
	return resolved, nil
}
