// Package seed populates a local development database with the plot type
// catalog and a small demo tenant pair.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/camposanto/camposanto/internal/platform/config"
	"github.com/camposanto/camposanto/internal/storage"
	"github.com/camposanto/camposanto/internal/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"CAMPOSANTO_DB_PATH" envDefault:"camposanto.db"`
	Demo   bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	fs.BoolVar(&cfg.Demo, "demo", false, "also create a demo cemetery and funeral organization")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// plotTypeCatalog is the default Chilean interment catalog. Seeding is
// idempotent; existing entries are kept as-is.
var plotTypeCatalog = []storage.PlotType{
	{Code: "NICHO", Name: "Nicho", DefaultCapacitySpaces: 1, Description: "Nicho en muro"},
	{Code: "TIERRA", Name: "Sepultura en tierra", DefaultCapacitySpaces: 2, Description: "Sepultura tradicional en tierra"},
	{Code: "MAUSOLEO", Name: "Mausoleo familiar", DefaultCapacitySpaces: 6, Description: "Construcción familiar con múltiples espacios"},
	{Code: "COLUMBARIO", Name: "Columbario", DefaultCapacitySpaces: 1, Description: "Nicho para urnas de cremación"},
}

// Run applies the catalog (and optionally demo tenants) to the database.
func Run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	for _, plotType := range plotTypeCatalog {
		seeded, err := store.EnsurePlotType(ctx, plotType)
		if err != nil {
			return fmt.Errorf("ensure plot type %s: %w", plotType.Code, err)
		}
		log.Printf("plot type %s (id %d)", seeded.Code, seeded.ID)
	}

	if cfg.Demo {
		if err := seedDemo(ctx, store); err != nil {
			return err
		}
	}
	return nil
}

// seedDemo creates one cemetery org with a site and one funeral org so the
// cross-tenant request flow can be exercised locally. Rerunning against a
// seeded database is a no-op.
func seedDemo(ctx context.Context, store *sqlite.Store) error {
	cemeteryOrg, err := store.CreateOrganization(ctx, storage.Organization{
		Kind: storage.OrgKindCemetery,
		Name: "Cementerio Parque del Recuerdo",
		Slug: "parque-del-recuerdo",
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			log.Printf("demo data already present, skipping")
			return nil
		}
		return fmt.Errorf("create demo cemetery: %w", err)
	}
	log.Printf("cemetery org %s (id %d)", cemeteryOrg.Slug, cemeteryOrg.ID)

	site, err := store.CreateSite(ctx, storage.Site{
		OrganizationID: cemeteryOrg.ID,
		Name:           "Sede Américo Vespucio",
		Region:         "Metropolitana",
		Comuna:         "Huechuraba",
		Address:        "Av. Américo Vespucio 555",
	})
	if err != nil {
		return fmt.Errorf("create demo site: %w", err)
	}
	log.Printf("site %s (id %d)", site.Name, site.ID)

	funeralOrg, err := store.CreateOrganization(ctx, storage.Organization{
		Kind: storage.OrgKindFuneral,
		Name: "Funeraria La Paz",
		Slug: "la-paz",
	})
	if err != nil {
		return fmt.Errorf("create demo funeral home: %w", err)
	}
	log.Printf("funeral org %s (id %d)", funeralOrg.Slug, funeralOrg.ID)
	return nil
}
