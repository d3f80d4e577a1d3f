package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/compiler"
	"github.com/mycv/cvgen/internal/config"
	"github.com/mycv/cvgen/internal/db"
	"github.com/mycv/cvgen/internal/generator"
	"github.com/mycv/cvgen/internal/i18n"
	"github.com/mycv/cvgen/internal/localdb"
	"github.com/mycv/cvgen/internal/pictures"
	"github.com/mycv/cvgen/internal/rendering"
	"github.com/mycv/cvgen/internal/styles"
	"github.com/mycv/cvgen/internal/types"
)

// profileStore is implemented by both the Postgres and the SQLite store.
type profileStore interface {
	LoadProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileSnapshot, error)
	SaveProfile(ctx context.Context, p *types.ProfileSnapshot) error
	Migrate(ctx context.Context) error
	Close() error
}

var errNoStore = errors.New("no profile store configured: set DATABASE_URL or CVGEN_SQLITE_PATH")

func openStore(ctx context.Context, cfg config.StoreConfig) (profileStore, error) {
	switch cfg.Kind() {
	case config.StorePostgres:
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, nil
	case config.StoreSQLite:
		store, err := localdb.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, errNoStore
	}
}

func openPictures(cfg config.PicturesConfig) (generator.PictureSource, error) {
	switch cfg.Backend {
	case config.PicturesFS:
		return pictures.NewFileStore(cfg.Dir), nil
	case config.PicturesS3:
		store, err := pictures.NewS3Store(cfg.S3())
		if err != nil {
			return nil, fmt.Errorf("failed to create picture store: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

func loadStyles(cfg config.TemplatesConfig) (*styles.Registry, error) {
	if cfg.StyleCatalog != "" {
		return styles.LoadRegistry(cfg.StyleCatalog)
	}
	return styles.Default()
}

// newGenerator wires the generation pipeline around store.
func (a *app) newGenerator(store generator.ProfileSource) (*generator.Generator, *i18n.Catalog, error) {
	registry, err := loadStyles(a.cfg.Templates)
	if err != nil {
		return nil, nil, err
	}
	workspace, err := rendering.NewWorkspace(a.cfg.Templates.Dir)
	if err != nil {
		return nil, nil, err
	}
	for _, style := range registry.Styles() {
		if !workspace.HasTemplate(style) {
			return nil, nil, fmt.Errorf("style %q references missing template %s", style.Key, style.SourceFile())
		}
	}
	catalog, err := i18n.New()
	if err != nil {
		return nil, nil, err
	}
	pics, err := openPictures(a.cfg.Pictures)
	if err != nil {
		return nil, nil, err
	}

	gen := generator.New(generator.Deps{
		Styles:     registry,
		Profiles:   store,
		Pictures:   pics,
		Workspace:  workspace,
		Compiler:   compiler.New(a.cfg.Compiler.Options(), a.logger),
		Translator: catalog,
		WorkRoot:   a.cfg.Compiler.WorkDir,
		Logger:     a.logger,
	})
	return gen, catalog, nil
}
