// Package model defines the rule types shared by the resolution packages and
// the point-of-interest records written as output.
package model

// Vector3 is a world-space location.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector2 is a top-down (X/Y) projection.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// XY projects v onto the ground plane.
func (v Vector3) XY() Vector2 {
	return Vector2{X: v.X, Y: v.Y}
}

// ProductionConfig is a resolved recipe: cargo key (or type) to quantity.
type ProductionConfig struct {
	InputCargos               map[string]int64 `json:"inputCargos,omitempty"`
	OutputCargos              map[string]int64 `json:"outputCargos,omitempty"`
	ProductionTimeSeconds     float64          `json:"productionTimeSeconds,omitempty"`
	ProductionSpeedMultiplier float64          `json:"productionSpeedMultiplier,omitempty"`
	LocalFoodSupply           float64          `json:"localFoodSupply,omitempty"`
}

// DeliveryPoint is a resolved delivery point.
type DeliveryPoint struct {
	Type                       string             `json:"type"`
	Name                       string             `json:"name,omitempty"`
	GUID                       string             `json:"guid,omitempty"`
	RelativeLocation           *Vector3           `json:"relativeLocation,omitempty"`
	Location                   string             `json:"location,omitempty"`
	Areas                      []string           `json:"areas,omitempty"`
	MaxStorage                 int64              `json:"maxStorage,omitempty"`
	ProductionConfigs          []ProductionConfig `json:"productionConfigs,omitempty"`
	DemandConfigs              map[string]float64 `json:"demandConfigs,omitempty"`
	DemandStorage              map[string]int64   `json:"demandStorageConfigs,omitempty"`
	SupplyStorage              map[string]int64   `json:"supplyStorageConfigs,omitempty"`
	DropPoint                  []string           `json:"dropPoint,omitempty"`
	MaxDeliveryDistance        float64            `json:"maxDeliveryDistance,omitempty"`
	MaxDeliveryReceiveDistance float64            `json:"maxDeliveryReceiveDistance,omitempty"`
}

// Clone returns a deep copy of p.
func (p DeliveryPoint) Clone() DeliveryPoint {
	out := p
	if p.RelativeLocation != nil {
		loc := *p.RelativeLocation
		out.RelativeLocation = &loc
	}
	out.Areas = cloneSlice(p.Areas)
	out.DropPoint = cloneSlice(p.DropPoint)
	out.DemandConfigs = cloneMap(p.DemandConfigs)
	out.DemandStorage = cloneMap(p.DemandStorage)
	out.SupplyStorage = cloneMap(p.SupplyStorage)
	if p.ProductionConfigs != nil {
		out.ProductionConfigs = make([]ProductionConfig, len(p.ProductionConfigs))
		for i, c := range p.ProductionConfigs {
			c.InputCargos = cloneMap(c.InputCargos)
			c.OutputCargos = cloneMap(c.OutputCargos)
			out.ProductionConfigs[i] = c
		}
	}
	return out
}

// BusStopPoint is a resolved bus stop or terminal.
type BusStopPoint struct {
	Type                   string   `json:"type"`
	Name                   string   `json:"name,omitempty"`
	GUID                   string   `json:"guid,omitempty"`
	RelativeLocation       *Vector3 `json:"relativeLocation,omitempty"`
	Location               string   `json:"location,omitempty"`
	Areas                  []string `json:"areas,omitempty"`
	Terminal               bool     `json:"terminal,omitempty"`
	AdditionalDestinations []string `json:"additionalDestinationsGuid,omitempty"`
}

// EvChargerPoint is an EV charger placed in a world partition cell.
type EvChargerPoint struct {
	RelativeLocation *Vector3 `json:"relativeLocation,omitempty"`
	Location         string   `json:"location,omitempty"`
	Areas            []string `json:"areas,omitempty"`
}

// HousePoint is a purchasable house plot.
type HousePoint struct {
	Name             string   `json:"name,omitempty"`
	RelativeLocation *Vector3 `json:"relativeLocation,omitempty"`
	Location         string   `json:"location,omitempty"`
	Areas            []string `json:"areas,omitempty"`
	Size             Vector2  `json:"size"`
	Cost             int64    `json:"cost,omitempty"`
}

// AreaVolume is a named map region with its top-down outline.
type AreaVolume struct {
	Name   string    `json:"name"`
	Flag   string    `json:"flag"`
	Vertex []Vector2 `json:"vertex"`
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
