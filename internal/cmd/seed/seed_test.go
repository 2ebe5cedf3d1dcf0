package seed

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/camposanto/camposanto/internal/storage/sqlite"
)

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/tmp/seed-test.db", "-demo"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/seed-test.db" {
		t.Fatalf("expected db path override, got %q", cfg.DBPath)
	}
	if !cfg.Demo {
		t.Fatal("expected demo flag set")
	}
}

func TestRunSeedsCatalogIdempotently(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "camposanto.db")
	ctx := context.Background()

	cfg := Config{DBPath: dbPath, Demo: true}
	if err := Run(ctx, cfg); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(ctx, cfg); err != nil {
		t.Fatalf("second run: %v", err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	plotTypes, err := store.ListPlotTypes(ctx)
	if err != nil {
		t.Fatalf("list plot types: %v", err)
	}
	if len(plotTypes) != len(plotTypeCatalog) {
		t.Fatalf("plot types = %d, want %d", len(plotTypes), len(plotTypeCatalog))
	}
}
