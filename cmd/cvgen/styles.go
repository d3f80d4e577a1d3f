package main

import (
	"encoding/json"
	"fmt"

	"github.com/mycv/cvgen/internal/i18n"
	"github.com/mycv/cvgen/internal/observability"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type styleListing struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []optionListing `json:"options"`
}

type optionListing struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default"`
}

func newStylesCmd(a *app) *cobra.Command {
	var lang string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List the available CV styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := loadStyles(a.cfg.Templates)
			if err != nil {
				return err
			}
			catalog, err := i18n.New()
			if err != nil {
				return err
			}

			tag := i18n.DefaultLanguage
			if lang != "" {
				parsed, err := language.Parse(lang)
				if err != nil {
					return fmt.Errorf("invalid --lang: %w", err)
				}
				tag = catalog.Resolve(parsed)
			}
			translate := func(key string) string { return catalog.Translate(tag, key) }

			if !asJSON {
				observability.NewPrinter(cmd.OutOrStdout()).PrintStyles(registry.Styles(), translate)
				return nil
			}

			out := []styleListing{}
			for _, s := range registry.Styles() {
				listing := styleListing{
					Key:         s.Key,
					Name:        translate(s.NameKey),
					Description: translate(s.DescriptionKey),
					Options:     []optionListing{},
				}
				for _, o := range s.Options {
					listing.Options = append(listing.Options, optionListing{
						Key: o.Key, Name: translate(o.NameKey), Type: string(o.Type), Default: o.Default,
					})
				}
				out = append(out, listing)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "Language of names and descriptions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
