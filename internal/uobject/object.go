// Package uobject decodes engine reflection exports into typed records.
//
// Only the properties the extractor reads are declared; every other engine
// field in the export is skipped by the JSON decoder.
package uobject

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Object is one exported reflection object.
type Object struct {
	Type               string      `json:"Type"`
	Name               string      `json:"Name"`
	Outer              string      `json:"Outer,omitempty"`
	Class              string      `json:"Class,omitempty"`
	Template           *ObjectPath `json:"Template,omitempty"`
	ClassDefaultObject *ObjectPath `json:"ClassDefaultObject,omitempty"`
	Properties         *Properties `json:"Properties,omitempty"`
}

// Properties is the subset of the engine property bag used by the extractor.
type Properties struct {
	RootComponent    *ObjectPath `json:"RootComponent,omitempty"`
	RelativeLocation *Vector3    `json:"RelativeLocation,omitempty"`

	// Delivery points
	DeliveryPointGuid          string             `json:"DeliveryPointGuid,omitempty"`
	PointName                  *TextList          `json:"PointName,omitempty"`
	MissionPointName           *Text              `json:"MissionPointName,omitempty"`
	DeliveryPointName          *DeliveryPointName `json:"DeliveryPointName,omitempty"`
	MaxStorage                 int64              `json:"MaxStorage,omitempty"`
	StorageConfigs             []StorageConfig    `json:"StorageConfigs,omitempty"`
	DemandConfigs              []DemandConfig     `json:"DemandConfigs,omitempty"`
	ProductionConfigs          []ProductionConfig `json:"ProductionConfigs,omitempty"`
	InputInventoryShare        []ObjectPath       `json:"InputInventoryShare,omitempty"`
	MaxDeliveryDistance        *float64           `json:"MaxDeliveryDistance,omitempty"`
	MaxDeliveryReceiveDistance *float64           `json:"MaxDeliveryReceiveDistance,omitempty"`

	// Bus stops
	BusStopGuid            string       `json:"BusStopGuid,omitempty"`
	BusStopName            *TextList    `json:"BusStopName,omitempty"`
	BusStopDisplayName     *Text        `json:"BusStopDisplayName,omitempty"`
	Tags                   []string     `json:"Tags,omitempty"`
	AdditionalDestinations []ObjectPath `json:"AdditionalDestinations,omitempty"`

	// Area volumes
	AreaName        *Text     `json:"AreaName,omitempty"`
	AreaVolumeFlags []string  `json:"AreaVolumeFlags,omitempty"`
	TopViewLines    []Vector3 `json:"TopViewLines,omitempty"`

	// Houses
	AreaSize  *Vector3 `json:"AreaSize,omitempty"`
	HousegKey string   `json:"HousegKey,omitempty"`
}

// Vector3 is an engine FVector.
type Vector3 struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Text is an engine FText as exported.
type Text struct {
	TableID                string `json:"TableId,omitempty"`
	Key                    string `json:"Key,omitempty"`
	SourceString           string `json:"SourceString,omitempty"`
	LocalizedString        string `json:"LocalizedString,omitempty"`
	CultureInvariantString string `json:"CultureInvariantString,omitempty"`
}

// Display returns the first non-empty of the source, localized and
// culture-invariant strings.
func (t *Text) Display() string {
	if t == nil {
		return ""
	}
	for _, s := range []string{t.SourceString, t.LocalizedString, t.CultureInvariantString} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Localized prefers the localized string over the source string.
func (t *Text) Localized() string {
	if t == nil {
		return ""
	}
	if strings.TrimSpace(t.LocalizedString) != "" {
		return t.LocalizedString
	}
	return t.SourceString
}

// TextList is an engine struct wrapping a list of FText fragments.
type TextList struct {
	Texts []Text `json:"Texts"`
}

// DeliveryPointName is a base name plus an optional number suffix.
type DeliveryPointName struct {
	Name   Text   `json:"Name"`
	Number *int64 `json:"Number,omitempty"`
}

// CargoAmount is an engine (cargo key, amount) pair.
type CargoAmount struct {
	Key   string `json:"Key"`
	Value int64  `json:"Value"`
}

// StorageConfig is a decoded storage limit row.
type StorageConfig struct {
	CargoType  string `json:"CargoType"`
	CargoKey   string `json:"CargoKey"`
	MaxStorage int64  `json:"MaxStorage,omitempty"`
}

// DemandConfig is a decoded demand row.
type DemandConfig struct {
	CargoType         string  `json:"CargoType"`
	CargoKey          string  `json:"CargoKey"`
	PaymentMultiplier float64 `json:"PaymentMultiplier"`
	MaxStorage        int64   `json:"MaxStorage,omitempty"`
}

// ProductionConfig is a decoded production recipe.
type ProductionConfig struct {
	InputCargos               []CargoAmount `json:"InputCargos,omitempty"`
	InputCargoTypes           []CargoAmount `json:"InputCargoTypes,omitempty"`
	OutputCargos              []CargoAmount `json:"OutputCargos,omitempty"`
	OutputCargoTypes          []CargoAmount `json:"OutputCargoTypes,omitempty"`
	ProductionTimeSeconds     float64       `json:"ProductionTimeSeconds"`
	ProductionSpeedMultiplier float64       `json:"ProductionSpeedMultiplier"`
	LocalFoodSupply           float64       `json:"LocalFoodSupply"`
}

// Decode reads an exported object list.
func Decode(r io.Reader) ([]Object, error) {
	var objs []Object
	dec := json.NewDecoder(bufio.NewReaderSize(r, 1<<20))
	if err := dec.Decode(&objs); err != nil {
		return nil, err
	}
	return objs, nil
}

// DecodeFile reads an exported object list from path.
func DecodeFile(path string) ([]Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	objs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return objs, nil
}
