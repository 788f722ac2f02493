package extract

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/cargo"
	"github.com/aidanlsb/mtpoi/internal/model"
)

// DefaultBusStopTypes are the actor types extracted as bus stops.
var DefaultBusStopTypes = []string{"BusStop_01_C", "BusStop_02_C", "BusStop_03_C", "BusTerminal_01_C"}

const (
	DefaultChargerType    = "EVCharger_C"
	DefaultHouseType      = "House_C"
	DefaultAreaVolumeType = "MTAreaVolume"
	DefaultMaxStorage     = 100
	DefaultHouseSize      = 2000
)

// Options tunes an extraction run. Zero values take the defaults above.
type Options struct {
	// DefaultMaxStorage is the capacity used when no record in the chain
	// sets one.
	DefaultMaxStorage int64
	// Workers bounds delivery point and cell fan-out. <= 0 means GOMAXPROCS.
	Workers int
	// Strict aborts on the first entity error. Otherwise the entity is
	// skipped and logged.
	Strict bool

	Taxonomy       cargo.Taxonomy
	BusStopTypes   []string
	ChargerType    string
	HouseType      string
	AreaVolumeType string
	// DefaultHouseSize replaces a house area size of (0, 0).
	DefaultHouseSize model.Vector2

	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.DefaultMaxStorage == 0 {
		o.DefaultMaxStorage = DefaultMaxStorage
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Taxonomy == nil {
		o.Taxonomy = cargo.Default()
	}
	if len(o.BusStopTypes) == 0 {
		o.BusStopTypes = DefaultBusStopTypes
	}
	if o.ChargerType == "" {
		o.ChargerType = DefaultChargerType
	}
	if o.HouseType == "" {
		o.HouseType = DefaultHouseType
	}
	if o.AreaVolumeType == "" {
		o.AreaVolumeType = DefaultAreaVolumeType
	}
	if o.DefaultHouseSize == (model.Vector2{}) {
		o.DefaultHouseSize = model.Vector2{X: DefaultHouseSize, Y: DefaultHouseSize}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Category names accepted by ParseCategories.
const (
	CategoryDelivery = "delivery"
	CategoryBus      = "bus"
	CategoryCharger  = "charger"
	CategoryHouse    = "house"
)

// Categories selects which point categories a run builds. Area volumes are
// always extracted since every category is tagged with them.
type Categories struct {
	DeliveryPoints bool
	BusStops       bool
	EvChargers     bool
	Houses         bool
}

// Names returns the selected category names in ParseCategories form.
func (c Categories) Names() []string {
	var out []string
	for _, n := range []struct {
		on   bool
		name string
	}{
		{c.DeliveryPoints, CategoryDelivery},
		{c.BusStops, CategoryBus},
		{c.EvChargers, CategoryCharger},
		{c.Houses, CategoryHouse},
	} {
		if n.on {
			out = append(out, n.name)
		}
	}
	return out
}

// AllCategories selects everything.
func AllCategories() Categories {
	return Categories{DeliveryPoints: true, BusStops: true, EvChargers: true, Houses: true}
}

// ParseCategories parses names like "delivery,bus". An empty list selects
// every category.
func ParseCategories(names []string) (Categories, error) {
	if len(names) == 0 {
		return AllCategories(), nil
	}
	var c Categories
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case CategoryDelivery:
			c.DeliveryPoints = true
		case CategoryBus:
			c.BusStops = true
		case CategoryCharger:
			c.EvChargers = true
		case CategoryHouse:
			c.Houses = true
		case "":
		default:
			valid := []string{CategoryDelivery, CategoryBus, CategoryCharger, CategoryHouse}
			sort.Strings(valid)
			return Categories{}, fmt.Errorf("unknown category %q (valid: %s)", n, strings.Join(valid, ", "))
		}
	}
	return c, nil
}
