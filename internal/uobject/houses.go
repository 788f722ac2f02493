package uobject

import (
	"encoding/json"
	"fmt"
	"os"
)

// HouseTable is the houses data asset: a row per house registration key.
type HouseTable struct {
	Rows map[string]HouseRow `json:"Rows"`
}

// HouseRow is one row of the houses data asset.
type HouseRow struct {
	Cost int64 `json:"Cost"`
}

// Cost returns the purchase cost for key, or 0 when the key is unknown.
func (t *HouseTable) Cost(key string) int64 {
	if t == nil {
		return 0
	}
	return t.Rows[key].Cost
}

// DecodeHouseTableFile reads the houses data asset. The asset is exported as
// an object list whose first element carries the rows.
func DecodeHouseTableFile(path string) (*HouseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tables []HouseTable
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(tables) == 0 {
		return &HouseTable{}, nil
	}
	return &tables[0], nil
}
