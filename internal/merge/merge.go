// Package merge combines the storage, demand and production rules of one
// entity's record chain into final per-cargo maps.
package merge

import (
	"github.com/aidanlsb/mtpoi/internal/cargo"
	"github.com/aidanlsb/mtpoi/internal/cascade"
	"github.com/aidanlsb/mtpoi/internal/model"
)

// ResolvedDemand is a demand rule with normalized keys and its effective
// capacity.
type ResolvedDemand struct {
	CargoKey          string
	CargoType         string
	MaxStorage        int64
	PaymentMultiplier float64
}

// Key is the cargo key, or the cargo type when no key is set.
func (d ResolvedDemand) Key() string {
	if d.CargoKey != "" {
		return d.CargoKey
	}
	return d.CargoType
}

// Result is the merged cargo configuration of one entity.
type Result struct {
	Storage            []model.StorageRule
	Demand             []ResolvedDemand
	Production         []model.ProductionConfig
	DemandStorage      map[string]int64
	SupplyStorage      map[string]int64
	PaymentMultipliers map[string]float64
}

// Merge resolves the cargo configuration of one entity. levels is ordered
// from most to least specific (world instance, type default, template); nil
// levels are skipped. defaultCap applies where no rule gives a capacity.
//
// Capacity precedence is demand rule > storage rule > defaultCap. Storage
// maps are first-writer-wins; zero capacities are never recorded.
func Merge(levels []*model.CargoRules, tax cargo.Taxonomy, defaultCap int64) Result {
	production := cascade.List(levels, func(r *model.CargoRules) []model.ProductionRule { return r.Production })
	demand := cascade.List(levels, func(r *model.CargoRules) []model.DemandRule { return r.Demand })
	storage := cargo.Expand(cascade.List(levels, func(r *model.CargoRules) []model.StorageRule { return r.Storage }), tax)

	m := merger{storage: storage, defaultCap: defaultCap}
	res := Result{
		Storage:            storage,
		DemandStorage:      map[string]int64{},
		SupplyStorage:      map[string]int64{},
		PaymentMultipliers: map[string]float64{},
	}

	res.Demand = make([]ResolvedDemand, 0, len(demand))
	for _, d := range demand {
		res.Demand = append(res.Demand, m.resolveDemand(d))
	}
	m.demand = res.Demand

	res.Production = make([]model.ProductionConfig, 0, len(production))
	for _, p := range production {
		res.Production = append(res.Production, m.production(p, res.DemandStorage, res.SupplyStorage))
	}

	for _, d := range res.Demand {
		key := d.Key()
		if key == "" {
			continue
		}
		recordFirst(res.DemandStorage, key, d.MaxStorage)
		res.PaymentMultipliers[key] = d.PaymentMultiplier
	}
	return res
}

type merger struct {
	storage    []model.StorageRule
	demand     []ResolvedDemand
	defaultCap int64
}

func (m *merger) resolveDemand(d model.DemandRule) ResolvedDemand {
	capacity := d.MaxStorage
	if capacity == 0 {
		capacity = m.storageCap(func(s model.StorageRule) bool {
			return s.CargoKey == d.CargoKey && s.CargoType == d.CargoType
		})
	}
	return ResolvedDemand{
		CargoKey:          model.NormalizeCargoKey(d.CargoKey),
		CargoType:         model.NormalizeCargoType(d.CargoType),
		MaxStorage:        capacity,
		PaymentMultiplier: d.PaymentMultiplier,
	}
}

// storageCap is the capacity of the first storage rule matching, else the
// default. A matching rule without a capacity also yields the default.
func (m *merger) storageCap(match func(model.StorageRule) bool) int64 {
	for _, s := range m.storage {
		if match(s) {
			if s.MaxStorage != 0 {
				return s.MaxStorage
			}
			break
		}
	}
	return m.defaultCap
}

func (m *merger) byKey(key string) int64 {
	for _, d := range m.demand {
		if d.CargoKey == key {
			if d.MaxStorage != 0 {
				return d.MaxStorage
			}
			break
		}
	}
	return m.storageCap(func(s model.StorageRule) bool { return s.CargoKey == key })
}

func (m *merger) byType(typ string) int64 {
	for _, d := range m.demand {
		if d.CargoType == typ {
			if d.MaxStorage != 0 {
				return d.MaxStorage
			}
			break
		}
	}
	return m.storageCap(func(s model.StorageRule) bool { return s.CargoType == typ })
}

func (m *merger) production(p model.ProductionRule, demandStorage, supplyStorage map[string]int64) model.ProductionConfig {
	cfg := model.ProductionConfig{
		ProductionTimeSeconds:     p.ProductionTimeSeconds,
		ProductionSpeedMultiplier: p.ProductionSpeedMultiplier,
		LocalFoodSupply:           p.LocalFoodSupply,
	}
	cfg.InputCargos = m.cargos(p.InputCargos, p.InputCargoTypes, demandStorage)
	cfg.OutputCargos = m.cargos(p.OutputCargos, p.OutputCargoTypes, supplyStorage)
	return cfg
}

func (m *merger) cargos(byKey, byType []model.CargoAmount, storage map[string]int64) map[string]int64 {
	if len(byKey)+len(byType) == 0 {
		return nil
	}
	out := make(map[string]int64, len(byKey)+len(byType))
	for _, c := range byKey {
		if c.Key == "" {
			continue
		}
		out[c.Key] = c.Value
		recordFirst(storage, c.Key, m.byKey(c.Key))
	}
	for _, c := range byType {
		if c.Key == "" {
			continue
		}
		out[c.Key] = c.Value
		recordFirst(storage, c.Key, m.byType(c.Key))
	}
	return out
}

func recordFirst(m map[string]int64, key string, capacity int64) {
	if capacity == 0 {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = capacity
	}
}
