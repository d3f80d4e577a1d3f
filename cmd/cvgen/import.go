package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/observability"
	"github.com/mycv/cvgen/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newImportCmd(a *app) *cobra.Command {
	var file, owner string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a YAML profile into the profile store",
		Long:  "Replace the stored profile of an owner with the contents of a YAML file. The owner is taken from the file unless --owner is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read profile: %w", err)
			}
			profile, err := parseProfile(data)
			if err != nil {
				return err
			}
			if owner != "" {
				id, err := uuid.Parse(owner)
				if err != nil {
					return fmt.Errorf("invalid --owner: %w", err)
				}
				profile.OwnerID = id
			}
			if profile.OwnerID == uuid.Nil {
				return errors.New("profile has no owner_id; set it in the file or pass --owner")
			}

			store, err := openStore(ctx, a.cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveProfile(ctx, profile); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}
			a.logger.Info("profile imported", "owner_id", profile.OwnerID.String(), "file", file)

			if a.verbose {
				observability.NewPrinter(cmd.OutOrStdout()).PrintProfile(profile)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), profile.OwnerID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the YAML profile (required)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID overriding owner_id in the file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseProfile decodes a YAML profile, rejecting unknown keys and duplicate IDs.
func parseProfile(data []byte) (*types.ProfileSnapshot, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var profile types.ProfileSnapshot
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := uniqueIDs("work_experiences", profile.WorkExperiences); err != nil {
		return nil, err
	}
	if err := uniqueIDs("education", profile.Education); err != nil {
		return nil, err
	}
	if err := uniqueIDs("projects", profile.Projects); err != nil {
		return nil, err
	}
	if err := uniqueIDs("skills", profile.Skills); err != nil {
		return nil, err
	}
	return &profile, nil
}

func uniqueIDs[T interface{ CVItemID() types.ItemID }](section string, items []T) error {
	seen := make(map[types.ItemID]bool, len(items))
	for _, item := range items {
		id := item.CVItemID()
		if id <= 0 {
			return fmt.Errorf("%s: id must be positive, got %d", section, id)
		}
		if seen[id] {
			return fmt.Errorf("%s: duplicate id %d", section, id)
		}
		seen[id] = true
	}
	return nil
}
