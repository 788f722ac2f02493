package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/cargo"
	"github.com/aidanlsb/mtpoi/internal/config"
	"github.com/aidanlsb/mtpoi/internal/extract"
	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/store"
)

// runSettings are the config values a command may override with flags.
type runSettings struct {
	cats     extract.Categories
	workers  int
	strict   bool
	compress bool
	index    string
	outDir   string
}

func settingsFromConfig(c *config.Config) runSettings {
	return runSettings{
		cats:     extract.AllCategories(),
		workers:  c.Workers,
		strict:   c.Strict,
		compress: c.Compress,
		index:    c.IndexPath,
		outDir:   c.OutputDir,
	}
}

func layoutFromConfig(c *config.Config) extract.Layout {
	return extract.Layout{
		WorldFile:        c.WorldFile,
		DeliveryPointDir: c.DeliveryPointDir,
		GeneratedDir:     c.GeneratedDir,
		HousesFile:       c.HousesFile,
	}
}

func loadTaxonomy(c *config.Config) (cargo.Taxonomy, error) {
	tax, err := cargo.LoadFile(c.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	return tax, nil
}

func extractOptions(c *config.Config, s runSettings, tax cargo.Taxonomy, log *zap.Logger) extract.Options {
	return extract.Options{
		DefaultMaxStorage: c.DefaultMaxStorage,
		Workers:           s.workers,
		Strict:            s.strict,
		Taxonomy:          tax,
		BusStopTypes:      c.Types.BusStops,
		ChargerType:       c.Types.EvCharger,
		HouseType:         c.Types.House,
		AreaVolumeType:    c.Types.AreaVolume,
		DefaultHouseSize:  model.Vector2{X: c.House.DefaultSizeX, Y: c.House.DefaultSizeY},
		Logger:            log,
	}
}

// runPipeline extracts with the given settings.
func runPipeline(ctx context.Context, c *config.Config, s runSettings, log *zap.Logger) (*extract.Result, error) {
	tax, err := loadTaxonomy(c)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(c.DumpRoot)
	if err != nil {
		return nil, err
	}
	st := store.New(root, store.Options{GameMount: c.GameMount})
	log.Debug("extracting",
		zap.String("dump_root", root),
		zap.Bool("strict", s.strict),
		zap.Int("workers", s.workers))
	return extract.Run(ctx, st, layoutFromConfig(c), s.cats, extractOptions(c, s, tax, log))
}
