package model

import "strings"

// Sentinels the engine writes for "no key" and "no type".
const (
	NoCargoKey  = "None"
	NoCargoType = "EDeliveryCargoType::None"
)

// StorageRule limits how much of one cargo key (or cargo type) an entity can
// hold. MaxStorage == 0 means unset.
type StorageRule struct {
	CargoType  string
	CargoKey   string
	MaxStorage int64
}

// KeyUnset reports whether the rule only names a cargo type.
func (r StorageRule) KeyUnset() bool {
	return NormalizeCargoKey(r.CargoKey) == ""
}

// DemandRule is what an entity accepts and how it pays for it.
type DemandRule struct {
	CargoType         string
	CargoKey          string
	MaxStorage        int64
	PaymentMultiplier float64
}

// CargoAmount is one (cargo key or type, quantity) pair of a recipe.
type CargoAmount struct {
	Key   string
	Value int64
}

// ProductionRule is one production recipe.
type ProductionRule struct {
	InputCargos               []CargoAmount
	InputCargoTypes           []CargoAmount
	OutputCargos              []CargoAmount
	OutputCargoTypes          []CargoAmount
	ProductionTimeSeconds     float64
	ProductionSpeedMultiplier float64
	LocalFoodSupply           float64
}

// CargoRules are the three cargo rule lists one record may define.
type CargoRules struct {
	Storage    []StorageRule
	Demand     []DemandRule
	Production []ProductionRule
}

// NormalizeCargoKey maps the "no key" sentinel to "".
func NormalizeCargoKey(key string) string {
	key = strings.TrimSpace(key)
	if key == NoCargoKey {
		return ""
	}
	return key
}

// NormalizeCargoType maps the "no type" sentinel to "".
func NormalizeCargoType(typ string) string {
	typ = strings.TrimSpace(typ)
	if typ == NoCargoType || typ == NoCargoKey {
		return ""
	}
	return typ
}
