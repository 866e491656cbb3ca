package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatio(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     Ratio
	}{
		{name: "defined", num: 10, den: 4, want: Ratio{Value: 2.5, Defined: true}},
		{name: "zero numerator", num: 0, den: 4, want: Ratio{Value: 0, Defined: true}},
		{name: "zero denominator", num: 10, den: 0, want: Ratio{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRatio(tt.num, tt.den))
		})
	}
}

func TestRatio_Float(t *testing.T) {
	_, err := NewRatio(1, 0).Float()
	assert.ErrorIs(t, err, ErrUndefinedRatio)

	v, err := NewRatio(3, 2).Float()
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
}

func TestRatio_Rendering(t *testing.T) {
	assert.Equal(t, "undefined", Ratio{}.String())
	assert.Equal(t, "1.50", DefinedRatio(1.5).String())
	assert.Equal(t, "1.500", DefinedRatio(1.5).Format(3))

	stats := RouteStats{Route: RouteKey{From: "Moscow", To: "Kazan"}}
	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"avg_cost_per_km":null`)

	var back RouteStats
	require.NoError(t, json.Unmarshal(data, &back))
	assert.False(t, back.AvgCostPerKm.Defined)
}

func TestRatio_Less(t *testing.T) {
	undefined := Ratio{}
	assert.True(t, DefinedRatio(5).Less(undefined))
	assert.False(t, undefined.Less(DefinedRatio(5)))
	assert.True(t, DefinedRatio(1).Less(DefinedRatio(2)))
	assert.False(t, undefined.Less(undefined))
}

func TestShipmentRecord_Helpers(t *testing.T) {
	r := ShipmentRecord{FromCity: "Moscow", ToCity: "Kazan", DistanceKm: 0, WeightKg: 100, CostRub: 500}

	assert.Equal(t, "Moscow -> Kazan", r.Route().String())
	assert.False(t, r.CostPerKm().Defined)
	assert.Equal(t, DefinedRatio(5), r.CostPerKg())
	assert.False(t, r.HasMonth())

	r.Month = 7
	assert.True(t, r.HasMonth())
}
