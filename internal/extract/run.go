package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/paths"
	"github.com/aidanlsb/mtpoi/internal/propagate"
	"github.com/aidanlsb/mtpoi/internal/store"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// Layout locates the inputs of a run, relative to the dump root.
type Layout struct {
	WorldFile        string
	DeliveryPointDir string
	GeneratedDir     string
	HousesFile       string
}

// Timing is how long one pipeline stage took.
type Timing struct {
	Stage   string
	Elapsed time.Duration
}

// Result is everything one run produced.
type Result struct {
	Areas          []model.AreaVolume
	DeliveryPoints []model.DeliveryPoint
	BusStops       []model.BusStopPoint
	EvChargers     []model.EvChargerPoint
	Houses         []model.HousePoint

	Propagation propagate.Report
	Skipped     []Skip
	Timings     []Timing
	FilesLoaded int64
}

// Pipeline stage names.
const (
	StageWorld      = "parse world"
	StageAreas      = "area volumes"
	StageDelivery   = "delivery points"
	StagePropagate  = "drop points"
	StageBusStops   = "bus stops"
	StageEvChargers = "ev chargers"
	StageHouses     = "houses"
)

// Run extracts the selected categories from the dump behind s.
func Run(ctx context.Context, s *store.Store, layout Layout, cats Categories, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger
	res := &Result{}

	stage := func(name string, fn func() error) error {
		start := time.Now()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(start)
		res.Timings = append(res.Timings, Timing{Stage: name, Elapsed: elapsed})
		log.Info("stage finished", zap.String("stage", name), zap.Duration("elapsed", elapsed))
		return nil
	}

	var world *store.File
	if err := stage(StageWorld, func() error {
		var err error
		world, err = s.LoadFile(layout.WorldFile)
		return err
	}); err != nil {
		return nil, err
	}
	log.Debug("world loaded", zap.String("file", world.Path), zap.Int("count", world.Len()))

	e := New(s, world, opts)
	_ = stage(StageAreas, func() error {
		res.Areas = e.Areas()
		return nil
	})

	if cats.DeliveryPoints {
		if err := stage(StageDelivery, func() error {
			blueprints, err := paths.ExportFiles(filepath.Join(s.Root(), layout.DeliveryPointDir))
			if err != nil {
				return err
			}
			points, err := e.DeliveryPoints(ctx, blueprints)
			res.DeliveryPoints = points
			return err
		}); err != nil {
			return nil, err
		}
		_ = stage(StagePropagate, func() error {
			res.DeliveryPoints, res.Propagation = propagate.DropPoints(res.DeliveryPoints)
			return nil
		})
		for _, l := range res.Propagation.Unknown {
			log.Warn("drop point not found", zap.String("ref", l.String()))
		}
		for _, l := range res.Propagation.Cycles {
			log.Warn("drop point cycle cut", zap.String("ref", l.String()))
		}
	}

	if cats.BusStops {
		if err := stage(StageBusStops, func() error {
			var err error
			res.BusStops, err = e.BusStops()
			return err
		}); err != nil {
			return nil, err
		}
	}

	if cats.EvChargers {
		if err := stage(StageEvChargers, func() error {
			cells, err := paths.ExportFiles(filepath.Join(s.Root(), layout.GeneratedDir))
			if err != nil {
				return err
			}
			res.EvChargers, err = e.EvChargers(ctx, cells)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if cats.Houses {
		if err := stage(StageHouses, func() error {
			table, err := uobject.DecodeHouseTableFile(filepath.Join(s.Root(), layout.HousesFile))
			if err != nil {
				return err
			}
			res.Houses, err = e.Houses(table)
			return err
		}); err != nil {
			return nil, err
		}
	}

	res.Skipped = e.Skipped()
	res.FilesLoaded = s.Loads()
	return res, nil
}
