// Package observability provides formatted output for the verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mycv/cvgen/internal/styles"
	"github.com/mycv/cvgen/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes boxed summaries for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintStyles lists the style catalog with labels resolved through translate.
func (p *Printer) PrintStyles(list []styles.Style, translate func(key string) string) {
	if len(list) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range list {
		sb.WriteString(fmt.Sprintf("%s  (%s)\n", s.Key, translate(s.NameKey)))
		sb.WriteString(fmt.Sprintf("    %s\n", translate(s.DescriptionKey)))
		for _, o := range s.Options {
			sb.WriteString(fmt.Sprintf("    • %s: %s [%s, default %s]\n", o.Key, translate(o.NameKey), o.Type, o.Default))
		}
		if i < len(list)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CV STYLES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs a summary of a stored profile.
func (p *Printer) PrintProfile(profile *types.ProfileSnapshot) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Owner:    %s\n", profile.OwnerID))
	if a := profile.Account; a != nil {
		sb.WriteString(fmt.Sprintf("Name:     %s %s\n", a.FirstName, a.LastName))
	} else {
		sb.WriteString("Name:     (no account details)\n")
	}
	if profile.JobTitle != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", profile.JobTitle))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Work experience:  %d\n", len(profile.WorkExperiences)))
	sb.WriteString(fmt.Sprintf("Education:        %d\n", len(profile.Education)))
	sb.WriteString(fmt.Sprintf("Projects:         %d\n", len(profile.Projects)))
	sb.WriteString(fmt.Sprintf("Skills:           %d\n", len(profile.Skills)))

	if len(profile.Skills) > 0 {
		sb.WriteString("\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := profile.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s, %d)\n", s.Name, s.Type, s.Level))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRequest outputs the selection of a generation request.
func (p *Printer) PrintRequest(req types.GenerationRequest) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Owner:    %s\n", req.OwnerID))
	sb.WriteString(fmt.Sprintf("Style:    %s\n", req.StyleKey))
	sb.WriteString(fmt.Sprintf("Locale:   %s\n", req.Locale))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Work experience:  %s\n", describeInclusion(req.WorkExperience)))
	sb.WriteString(fmt.Sprintf("Education:        %s\n", describeInclusion(req.Education)))
	sb.WriteString(fmt.Sprintf("Projects:         %s\n", describeInclusion(req.Projects)))
	sb.WriteString(fmt.Sprintf("Skills:           %s\n", describeInclusion(req.Skills)))

	if len(req.TemplateOptions) > 0 {
		sb.WriteString("\nOptions:\n")
		for _, k := range sortedKeys(req.TemplateOptions) {
			sb.WriteString(fmt.Sprintf("  • %s = %s\n", k, req.TemplateOptions[k]))
		}
	}

	p.printBox("GENERATION REQUEST", strings.TrimSuffix(sb.String(), "\n"))
}

func describeInclusion(in types.Inclusion) string {
	if !in.IsFiltered() {
		return "all"
	}
	specs := in.Specs()
	if len(specs) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(specs))
	for _, s := range specs {
		id := fmt.Sprintf("%d", s.ID)
		if !s.IncludeDescription {
			id += "*"
		}
		ids = append(ids, id)
	}
	return strings.Join(ids, ", ")
}

// PrintDocument outputs where a compiled document was written.
func (p *Printer) PrintDocument(doc *types.CompiledDocument, path string, elapsed time.Duration) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", path))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", doc.MediaType))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes\n", len(doc.Content)))
	sb.WriteString(fmt.Sprintf("Took:     %s", elapsed.Round(time.Millisecond)))

	p.printBox("✅ CV GENERATED", sb.String())
}
