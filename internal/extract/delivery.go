package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/cascade"
	"github.com/aidanlsb/mtpoi/internal/merge"
	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/source"
)

const categoryDelivery = "delivery point"

// deliveryJob is one world actor of a delivery point blueprint's type.
type deliveryJob struct {
	index    int
	defaults *source.DeliveryPointSource
	template *source.DeliveryPointSource
}

// DeliveryPoints builds a delivery point for every world actor whose type
// matches one of the blueprint files. Output is in blueprint order, then
// world order. Drop points are not propagated here.
func (e *Extractor) DeliveryPoints(ctx context.Context, blueprints []string) ([]model.DeliveryPoint, error) {
	var jobs []deliveryJob
	for _, bp := range blueprints {
		js, err := e.blueprintJobs(bp)
		if err != nil {
			if err := e.fail("blueprint", bp, err); err != nil {
				return nil, err
			}
			continue
		}
		jobs = append(jobs, js...)
	}
	e.log.Debug("delivery point actors matched",
		zap.Int("blueprints", len(blueprints)),
		zap.Int("count", len(jobs)))

	built, err := fanOut(ctx, e.opts.Workers, len(jobs), func(_ context.Context, i int) (*model.DeliveryPoint, error) {
		j := jobs[i]
		obj := &e.world.Objects[j.index]
		p, err := e.deliveryPoint(j)
		if err != nil {
			return nil, e.fail(categoryDelivery, obj.Name, fmt.Errorf("delivery point %s: %w", obj.Name, err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.DeliveryPoint, 0, len(built))
	for _, p := range built {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// blueprintJobs loads a blueprint file, follows its class default object and
// template, and lists the world actors of that type.
func (e *Extractor) blueprintJobs(path string) ([]deliveryJob, error) {
	bp, err := e.store.LoadFile(path)
	if err != nil {
		return nil, err
	}
	class, ok := bp.At(0)
	if !ok {
		return nil, &source.SchemaGapError{Object: bp.Container, Field: "objects"}
	}
	if class.ClassDefaultObject == nil || class.ClassDefaultObject.IsZero() {
		return nil, &source.SchemaGapError{Object: class.Name, Type: class.Type, Field: "ClassDefaultObject"}
	}
	main, _, err := e.resolver.Resolve(*class.ClassDefaultObject, bp)
	if err != nil {
		return nil, fmt.Errorf("%s: class default object: %w", bp.Container, err)
	}
	defaults := source.DeliveryPointDefaults(main)

	var template *source.DeliveryPointSource
	if main.Template != nil && !main.Template.IsZero() {
		tmpl, _, err := e.resolver.Resolve(*main.Template, bp)
		if err != nil {
			return nil, fmt.Errorf("%s: template: %w", bp.Container, err)
		}
		template = source.DeliveryPointDefaults(tmpl)
	}

	var jobs []deliveryJob
	for i := range e.world.Objects {
		if e.world.Objects[i].Type == main.Type {
			jobs = append(jobs, deliveryJob{index: i, defaults: defaults, template: template})
		}
	}
	return jobs, nil
}

func rulesOf(s *source.DeliveryPointSource) *model.CargoRules {
	if s == nil {
		return nil
	}
	return &s.Rules
}

func (e *Extractor) deliveryPoint(j deliveryJob) (*model.DeliveryPoint, error) {
	obj := &e.world.Objects[j.index]
	w, err := source.DeliveryPoint(obj)
	if err != nil {
		return nil, err
	}
	levels := cascade.Levels(w, j.defaults, j.template)

	pl, err := e.place(w.RootComponent, e.world)
	if err != nil {
		return nil, err
	}

	name, _ := cascade.String(levels, func(s *source.DeliveryPointSource) string { return s.Name })
	maxStorage := cascade.Resolve(levels, func(s *source.DeliveryPointSource) (int64, bool) {
		return s.MaxStorage, s.MaxStorage != 0
	}, e.opts.DefaultMaxStorage)

	merged := merge.Merge([]*model.CargoRules{rulesOf(w), rulesOf(j.defaults), rulesOf(j.template)}, e.opts.Taxonomy, maxStorage)

	drops, err := e.resolver.ResolveLocalAll(w.DropPoints, e.world)
	if err != nil {
		return nil, fmt.Errorf("drop point: %w", err)
	}
	var dropGUIDs []string
	for _, d := range drops {
		if g := source.DeliveryPointGUID(d); g != "" {
			dropGUIDs = append(dropGUIDs, g)
		}
	}

	maxDist, _ := cascade.Ptr(levels, func(s *source.DeliveryPointSource) *float64 { return s.MaxDeliveryDistance })
	maxRecv, _ := cascade.Ptr(levels, func(s *source.DeliveryPointSource) *float64 { return s.MaxDeliveryReceiveDistance })

	return &model.DeliveryPoint{
		Type:                       obj.Type,
		Name:                       name,
		GUID:                       w.GUID,
		RelativeLocation:           pl.loc,
		Location:                   pl.label,
		Areas:                      pl.areas,
		MaxStorage:                 maxStorage,
		ProductionConfigs:          merged.Production,
		DemandConfigs:              merged.PaymentMultipliers,
		DemandStorage:              merged.DemandStorage,
		SupplyStorage:              merged.SupplyStorage,
		DropPoint:                  dropGUIDs,
		MaxDeliveryDistance:        maxDist,
		MaxDeliveryReceiveDistance: maxRecv,
	}, nil
}
