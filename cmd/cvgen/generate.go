package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/generator"
	"github.com/mycv/cvgen/internal/i18n"
	"github.com/mycv/cvgen/internal/observability"
	"github.com/mycv/cvgen/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type generateFlags struct {
	owner         string
	style         string
	work          string
	education     string
	projects      string
	skills        string
	noDescription string
	options       map[string]string
	lang          string
	out           string
}

// inclusionFlags lists the category flags in request order.
var inclusionFlags = []string{"include-work", "include-education", "include-projects", "include-skills"}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a CV for an owner",
		Long: `Generate a CV from the stored profile of an owner.

Each --include-* flag takes a comma-separated list of entry IDs. Omitting a flag keeps every
entry of that category; passing an empty list keeps none. IDs listed in --no-description are
rendered without their description.`,
		Example: "  cvgen generate --owner 6f1c2a8e-... --style talendo --include-work 1,2 --option bannerBackground=#1D3557 -o cv.pdf",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, a, f)
		},
	}

	cmd.Flags().StringVar(&f.owner, "owner", "", "Owner ID (required)")
	cmd.Flags().StringVarP(&f.style, "style", "s", "", "Style key (required)")
	cmd.Flags().StringVar(&f.work, "include-work", "", "Work experience IDs to include")
	cmd.Flags().StringVar(&f.education, "include-education", "", "Education IDs to include")
	cmd.Flags().StringVar(&f.projects, "include-projects", "", "Project IDs to include")
	cmd.Flags().StringVar(&f.skills, "include-skills", "", "Skill IDs to include")
	cmd.Flags().StringVar(&f.noDescription, "no-description", "", "IDs whose description is omitted")
	cmd.Flags().StringToStringVar(&f.options, "option", nil, "Template option as key=value (repeatable)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "Document language (default: the owner's account language)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output file (default: the generated file name in the current directory)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("style")
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, f *generateFlags) error {
	ctx := cmd.Context()

	req, err := buildRequest(cmd, f)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	gen, catalog, err := a.newGenerator(store)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if a.verbose {
		printer.PrintRequest(req)
	}

	start := time.Now()
	doc, err := gen.Generate(ctx, req)
	if err != nil {
		return describeFailure(catalog, req.Locale, err)
	}

	path := f.out
	if path == "" {
		path = doc.FileName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if a.verbose {
		printer.PrintDocument(doc, path, time.Since(start))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// describeFailure prefixes a pipeline error with its localized user-facing message.
func describeFailure(catalog *i18n.Catalog, tag language.Tag, err error) error {
	var safe generator.SafeError
	if !errors.As(err, &safe) {
		return err
	}
	return fmt.Errorf("%s: %w", catalog.Translate(tag, safe.SafeMessageKey()), err)
}

func buildRequest(cmd *cobra.Command, f *generateFlags) (types.GenerationRequest, error) {
	ownerID, err := uuid.Parse(f.owner)
	if err != nil {
		return types.GenerationRequest{}, fmt.Errorf("invalid --owner: %w", err)
	}

	req := types.GenerationRequest{
		OwnerID:         ownerID,
		StyleKey:        f.style,
		TemplateOptions: f.options,
	}

	if f.lang != "" {
		tag, err := language.Parse(f.lang)
		if err != nil {
			return types.GenerationRequest{}, fmt.Errorf("invalid --lang: %w", err)
		}
		req.Locale = tag
	}

	withoutDescription, err := parseIDs(f.noDescription)
	if err != nil {
		return types.GenerationRequest{}, fmt.Errorf("invalid --no-description: %w", err)
	}
	skip := make(map[types.ItemID]bool, len(withoutDescription))
	for _, id := range withoutDescription {
		skip[id] = true
	}

	values := map[string]string{
		"include-work":      f.work,
		"include-education": f.education,
		"include-projects":  f.projects,
		"include-skills":    f.skills,
	}
	targets := map[string]*types.Inclusion{
		"include-work":      &req.WorkExperience,
		"include-education": &req.Education,
		"include-projects":  &req.Projects,
		"include-skills":    &req.Skills,
	}
	for _, name := range inclusionFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		ids, err := parseIDs(values[name])
		if err != nil {
			return types.GenerationRequest{}, fmt.Errorf("invalid --%s: %w", name, err)
		}
		specs := make([]types.InclusionSpec, 0, len(ids))
		for _, id := range ids {
			specs = append(specs, types.InclusionSpec{ID: id, IncludeDescription: !skip[id]})
		}
		*targets[name] = types.Filtered(specs...)
	}
	return req, nil
}

// parseIDs parses a comma-separated list of positive IDs. An empty string is an empty list.
func parseIDs(s string) ([]types.ItemID, error) {
	ids := []types.ItemID{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%q is not a positive ID", part)
		}
		ids = append(ids, types.ItemID(n))
	}
	return ids, nil
}
