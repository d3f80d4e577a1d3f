package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/config"
	"github.com/mycv/cvgen/internal/server"
	"github.com/spf13/cobra"
)

func newTokenCmd(_ *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed API token for an owner",
		Long:  "Sign a bearer token with JWT_SECRET for local testing of the generate endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			jwtConfig, err := config.NewJWTConfig()
			if err != nil {
				return err
			}
			token, err := server.NewJWTService(jwtConfig).GenerateToken(ownerID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID (required)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
