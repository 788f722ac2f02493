package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortGUID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"3F2504E0-4F89-11D3-9A0C-0305E82C3301", "3f2504e04f8911d39a0c0305e82c3301"},
		{"{3F2504E0-4F89-11D3-9A0C-0305E82C3301}", "3f2504e04f8911d39a0c0305e82c3301"},
		{"3F2504E04F8911D39A0C0305E82C3301", "3f2504e04f8911d39a0c0305e82c3301"},
		{"AB-CD", "abcd"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ShortGUID(tc.in), "ShortGUID(%q)", tc.in)
	}
}

func TestNormalizeSentinels(t *testing.T) {
	assert.Equal(t, "", NormalizeCargoKey("None"))
	assert.Equal(t, "Coal", NormalizeCargoKey("Coal"))
	assert.Equal(t, "", NormalizeCargoType("EDeliveryCargoType::None"))
	assert.Equal(t, "EDeliveryCargoType::Food", NormalizeCargoType("EDeliveryCargoType::Food"))
	assert.True(t, StorageRule{CargoType: "EDeliveryCargoType::Food", CargoKey: "None"}.KeyUnset())
	assert.False(t, StorageRule{CargoKey: "Coal"}.KeyUnset())
}

func TestDeliveryPointCloneIsDeep(t *testing.T) {
	p := DeliveryPoint{
		Type:          "T",
		DemandStorage: map[string]int64{"wood": 50},
		DropPoint:     []string{"b"},
		ProductionConfigs: []ProductionConfig{
			{InputCargos: map[string]int64{"Log_20ft": 2}},
		},
		RelativeLocation: &Vector3{X: 1},
	}
	c := p.Clone()
	c.DemandStorage["wood"] = 80
	c.DropPoint[0] = "z"
	c.ProductionConfigs[0].InputCargos["Log_20ft"] = 9
	c.RelativeLocation.X = 5

	assert.Equal(t, int64(50), p.DemandStorage["wood"])
	assert.Equal(t, "b", p.DropPoint[0])
	assert.Equal(t, int64(2), p.ProductionConfigs[0].InputCargos["Log_20ft"])
	assert.Equal(t, 1.0, p.RelativeLocation.X)
}
