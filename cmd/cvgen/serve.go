package main

import (
	"fmt"

	"github.com/mycv/cvgen/internal/config"
	"github.com/mycv/cvgen/internal/server"
	"github.com/mycv/cvgen/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server that lists CV styles and generates CVs for authenticated owners.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return runServe(cmd, a)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides CVGEN_PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	rateLimit, err := ratelimit.LoadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("failed to close profile store", "error", err)
		}
	}()

	gen, catalog, err := a.newGenerator(store)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:           a.cfg.Server.Addr(),
		ReadTimeout:    a.cfg.Server.ReadTimeout,
		WriteTimeout:   a.cfg.Server.WriteTimeout,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Generator:      gen,
		Localizer:      catalog,
		Tokens:         server.NewJWTService(jwtConfig).AsTokenValidator(),
		RateLimit:      rateLimit,
		Logger:         a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
