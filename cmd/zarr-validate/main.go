// Command zarr-validate validates the OME-Zarr metadata of a store node.
//
//	OMEZARR_STORE_DRIVER=fs OMEZARR_STORE_FS_ROOT=/data/plate.ome.zarr zarr-validate [node]
//
// The node argument (or OMEZARR_NODE) is the group path relative to the store
// root. Exit codes: 0 valid, 1 invalid metadata, 2 usage or store error.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"omezarr/internal/config"
	"omezarr/internal/schema"
	"omezarr/pkg/ngff"
	v04 "omezarr/pkg/ngff/v04"
	"omezarr/pkg/zarr"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	node := cfg.Node
	if len(os.Args) > 1 {
		node = os.Args[1]
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("opening store", "driver", cfg.Driver, "error", err)
		return 2
	}
	if cfg.Metrics {
		st = zarr.WithMetrics(st, zarr.NewExpvarMetricsRecorder("zarr_validate_store"))
	}

	group, err := zarr.OpenGroup(ctx, st, node)
	if err != nil {
		logger.Error("opening group", "node", node, "error", err)
		return 2
	}

	if cfg.Strict {
		if err := strictCheck(ctx, cfg.Kind, group); err != nil {
			logger.Error("strict schema check failed", "node", node, "error", err)
			return 1
		}
	}

	if err := validateNode(ctx, cfg.Kind, group); err != nil {
		logger.Error("validation failed", "node", node, "kind", cfg.Kind, "error", err)
		return 1
	}
	logger.Info("metadata valid", "node", node, "kind", cfg.Kind, "driver", st.Driver())
	return 0
}

func openStore(ctx context.Context, cfg *config.Config) (zarr.Store, error) {
	// The factory reads the OMEZARR_STORE_* variables; mirror the config
	// values into the environment so both entry points agree.
	if os.Getenv("OMEZARR_STORE_DRIVER") == "" {
		_ = os.Setenv("OMEZARR_STORE_DRIVER", cfg.Driver)
	}
	if os.Getenv("OMEZARR_STORE_FS_ROOT") == "" && cfg.Root != "" {
		_ = os.Setenv("OMEZARR_STORE_FS_ROOT", cfg.Root)
	}
	if os.Getenv("OMEZARR_STORE_SQLITE_PATH") == "" && cfg.SQLitePath != "" {
		_ = os.Setenv("OMEZARR_STORE_SQLITE_PATH", cfg.SQLitePath)
	}
	if os.Getenv("OMEZARR_STORE_POSTGRES_DSN") == "" && cfg.PostgresDSN != "" {
		_ = os.Setenv("OMEZARR_STORE_POSTGRES_DSN", cfg.PostgresDSN)
	}
	return zarr.Open(ctx)
}

func strictCheck(ctx context.Context, kind string, g *zarr.Group) error {
	raw, err := g.RawAttributes(ctx)
	if err != nil {
		return err
	}
	switch kind {
	case "image":
		return schema.ValidateImage(raw)
	case "hcs":
		return schema.ValidatePlate(raw)
	default:
		// No single schema applies; model parsing decides.
		return nil
	}
}

func validateNode(ctx context.Context, kind string, g *zarr.Group) error {
	switch kind {
	case "image":
		_, err := v04.ImageFromGroup(ctx, g)
		return err
	case "labels":
		_, err := v04.LabelsFromGroup(ctx, g)
		return err
	case "hcs":
		_, err := v04.HCSFromGroup(ctx, g)
		return err
	default:
		return autoValidate(ctx, g)
	}
}

// autoValidate tries each model in turn, skipping the ones whose metadata key
// is absent. A node carrying none of the keys is reported as such.
func autoValidate(ctx context.Context, g *zarr.Group) error {
	if _, err := v04.ImageFromGroup(ctx, g); !errors.Is(err, ngff.ErrNoMultiscaleMetadata) {
		return err
	}
	if _, err := v04.LabelsFromGroup(ctx, g); !errors.Is(err, ngff.ErrNoLabelsMetadata) {
		return err
	}
	if _, err := v04.HCSFromGroup(ctx, g); !errors.Is(err, ngff.ErrNoPlateMetadata) {
		return err
	}
	return fmt.Errorf("node %q carries no multiscales, labels, or plate metadata", g.Path())
}
