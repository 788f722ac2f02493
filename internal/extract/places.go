package extract

import (
	"context"
	"fmt"

	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/source"
	"github.com/aidanlsb/mtpoi/internal/store"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// BusStops builds every bus stop and terminal in the world.
func (e *Extractor) BusStops() ([]model.BusStopPoint, error) {
	types := make(map[string]struct{}, len(e.opts.BusStopTypes))
	for _, t := range e.opts.BusStopTypes {
		types[t] = struct{}{}
	}

	var out []model.BusStopPoint
	for i := range e.world.Objects {
		obj := &e.world.Objects[i]
		if _, ok := types[obj.Type]; !ok {
			continue
		}
		p, err := e.busStop(obj)
		if err != nil {
			if err := e.fail("bus stop", obj.Name, fmt.Errorf("bus stop %s: %w", obj.Name, err)); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (e *Extractor) busStop(obj *uobject.Object) (model.BusStopPoint, error) {
	src, err := source.BusStop(obj)
	if err != nil {
		return model.BusStopPoint{}, err
	}
	pl, err := e.place(src.RootComponent, e.world)
	if err != nil {
		return model.BusStopPoint{}, err
	}
	dests, err := e.resolver.ResolveLocalAll(src.AdditionalDestinations, e.world)
	if err != nil {
		return model.BusStopPoint{}, fmt.Errorf("additional destination: %w", err)
	}
	var guids []string
	for _, d := range dests {
		if g := source.BusStopGUID(d); g != "" {
			guids = append(guids, g)
		}
	}
	return model.BusStopPoint{
		Type:                   src.Type,
		Name:                   src.Name,
		GUID:                   src.GUID,
		RelativeLocation:       pl.loc,
		Location:               pl.label,
		Areas:                  pl.areas,
		Terminal:               src.Terminal,
		AdditionalDestinations: guids,
	}, nil
}

// EvChargers builds the chargers placed in the given world partition cells.
// Cells are loaded concurrently; output follows cell order, then object
// order within a cell.
func (e *Extractor) EvChargers(ctx context.Context, cells []string) ([]model.EvChargerPoint, error) {
	perCell, err := fanOut(ctx, e.opts.Workers, len(cells), func(_ context.Context, i int) ([]model.EvChargerPoint, error) {
		return e.cellChargers(cells[i])
	})
	if err != nil {
		return nil, err
	}
	var out []model.EvChargerPoint
	for _, c := range perCell {
		out = append(out, c...)
	}
	return out, nil
}

func (e *Extractor) cellChargers(path string) ([]model.EvChargerPoint, error) {
	cell, err := e.store.LoadFile(path)
	if err != nil {
		return nil, e.fail("cell", path, err)
	}
	var out []model.EvChargerPoint
	for i := range cell.Objects {
		obj := &cell.Objects[i]
		if obj.Type != e.opts.ChargerType {
			continue
		}
		p, err := e.charger(obj, cell)
		if err != nil {
			if err := e.fail("ev charger", obj.Name, fmt.Errorf("ev charger %s in %s: %w", obj.Name, cell.Container, err)); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (e *Extractor) charger(obj *uobject.Object, cell *store.File) (model.EvChargerPoint, error) {
	src, err := source.Charger(obj)
	if err != nil {
		return model.EvChargerPoint{}, err
	}
	pl, err := e.place(src.RootComponent, cell)
	if err != nil {
		return model.EvChargerPoint{}, err
	}
	return model.EvChargerPoint{RelativeLocation: pl.loc, Location: pl.label, Areas: pl.areas}, nil
}

// Houses builds every house plot in the world, priced from table.
func (e *Extractor) Houses(table *uobject.HouseTable) ([]model.HousePoint, error) {
	var out []model.HousePoint
	for i := range e.world.Objects {
		obj := &e.world.Objects[i]
		if obj.Type != e.opts.HouseType {
			continue
		}
		p, err := e.house(obj, table)
		if err != nil {
			if err := e.fail("house", obj.Name, fmt.Errorf("house %s: %w", obj.Name, err)); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (e *Extractor) house(obj *uobject.Object, table *uobject.HouseTable) (model.HousePoint, error) {
	src, err := source.House(obj)
	if err != nil {
		return model.HousePoint{}, err
	}
	pl, err := e.place(src.RootComponent, e.world)
	if err != nil {
		return model.HousePoint{}, err
	}
	size := src.Size
	if size == (model.Vector2{}) {
		size = e.opts.DefaultHouseSize
	}
	return model.HousePoint{
		Name:             src.Key,
		RelativeLocation: pl.loc,
		Location:         pl.label,
		Areas:            pl.areas,
		Size:             size,
		Cost:             table.Cost(src.Key),
	}, nil
}
