package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	gen, err := New(DefaultReferenceTables(), nil)
	require.NoError(t, err)
	return gen
}

func TestGenerate_Deterministic(t *testing.T) {
	gen := newTestGenerator(t)

	a := gen.Generate(7, rand.New(rand.NewSource(42)))
	b := gen.Generate(7, rand.New(rand.NewSource(42)))
	c := gen.Generate(7, rand.New(rand.NewSource(43)))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_RecordInvariants(t *testing.T) {
	gen := newTestGenerator(t)
	tables := DefaultReferenceTables()
	known := tables.DistanceIndex()
	rng := rand.New(rand.NewSource(1))

	windowEnd := DateWindowStart.AddDate(0, 0, DateWindowDays)
	statuses := map[domain.ShipmentStatus]int{}

	const n = 5000
	for id := 1; id <= n; id++ {
		rec := gen.Generate(id, rng)
		statuses[rec.Status]++

		require.Equal(t, id, rec.ShipmentID)
		require.NotEqual(t, rec.FromCity, rec.ToCity)
		require.Greater(t, rec.DistanceKm, 0)
		require.GreaterOrEqual(t, rec.WeightKg, MinWeightKg)
		require.LessOrEqual(t, rec.WeightKg, MaxWeightKg)
		require.GreaterOrEqual(t, rec.VolumeM3, 0.0)
		require.Greater(t, rec.CostRub, 0.0)
		require.GreaterOrEqual(t, rec.BaseCostPerKm, MinBaseCostPerKm)
		require.LessOrEqual(t, rec.BaseCostPerKm, MaxBaseCostPerKm)
		require.False(t, rec.Date.Before(DateWindowStart))
		require.False(t, rec.Date.After(windowEnd))
		require.True(t, rec.Status.Valid())
		require.Equal(t, rec.Status == domain.StatusDelivered, rec.DeliveryDays != nil)
		require.GreaterOrEqual(t, rec.CustomerID, MinCustomerID)
		require.LessOrEqual(t, rec.CustomerID, MaxCustomerID)
		require.GreaterOrEqual(t, rec.InsuranceCost, 0.0)
		require.GreaterOrEqual(t, rec.FuelSurcharge, 0.0)
		require.GreaterOrEqual(t, rec.ReturnCost, 0.0)
		require.Zero(t, rec.Month)

		if d, ok := known[rec.Route()]; ok {
			require.Equal(t, d, rec.DistanceKm, "known distance must be used for %s", rec.Route())
		} else {
			require.GreaterOrEqual(t, rec.DistanceKm, MinSyntheticDistance-DistanceJitter)
			require.LessOrEqual(t, rec.DistanceKm, MaxSyntheticDistance+DistanceJitter)
		}

		if rec.DeliveryDays != nil {
			require.GreaterOrEqual(t, *rec.DeliveryDays, max(1, rec.DistanceKm/800))
			require.LessOrEqual(t, *rec.DeliveryDays, max(3, rec.DistanceKm/400))
		}
	}

	assert.InDelta(t, 0.85, float64(statuses[domain.StatusDelivered])/n, 0.03)
	assert.Greater(t, statuses[domain.StatusInTransit], 0)
}

func TestGenerate_OriginWeights(t *testing.T) {
	gen := newTestGenerator(t)
	rng := rand.New(rand.NewSource(99))

	origins := map[string]int{}
	const n = 20000
	for id := 1; id <= n; id++ {
		origins[gen.Generate(id, rng).FromCity]++
	}

	assert.InDelta(t, 0.25, float64(origins["Moscow"])/n, 0.02)
	assert.InDelta(t, 0.02, float64(origins["Ufa"])/n, 0.01)
}

func TestDistanceModifier(t *testing.T) {
	tests := []struct {
		distance int
		want     float64
	}{
		{distance: 100, want: 1.2},
		{distance: 499, want: 1.2},
		{distance: 500, want: 1.0},
		{distance: 1200, want: 1.0},
		{distance: 2000, want: 1.0},
		{distance: 2001, want: 0.9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DistanceModifier(tt.distance), "distance %d", tt.distance)
	}
}

func TestDeliveryDays_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		distance  int
		low, high int
	}{
		{name: "short haul", distance: 300, low: 1, high: 3},
		{name: "medium haul", distance: 1600, low: 2, high: 4},
		{name: "long haul", distance: 3100, low: 3, high: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(5))
			for i := 0; i < 200; i++ {
				d := DeliveryDays(tt.distance, rng)
				assert.GreaterOrEqual(t, d, tt.low)
				assert.LessOrEqual(t, d, tt.high)
			}
		})
	}
}

func TestNew_InvalidTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ReferenceTables)
	}{
		{name: "no cities", mutate: func(r *domain.ReferenceTables) { r.Cities = nil }},
		{name: "single city", mutate: func(r *domain.ReferenceTables) { r.Cities = r.Cities[:1]; r.Distances = nil }},
		{name: "no carriers", mutate: func(r *domain.ReferenceTables) { r.Carriers = nil }},
		{name: "no cargo", mutate: func(r *domain.ReferenceTables) { r.CargoTypes = nil }},
		{name: "zero weights", mutate: func(r *domain.ReferenceTables) {
			for i := range r.Cities {
				r.Cities[i].Weight = 0
			}
		}},
		{name: "negative price factor", mutate: func(r *domain.ReferenceTables) { r.Carriers[0].PriceFactor = -1 }},
		{name: "reliability above one", mutate: func(r *domain.ReferenceTables) { r.Carriers[0].Reliability = 1.5 }},
		{name: "duplicate carrier", mutate: func(r *domain.ReferenceTables) { r.Carriers[1].Name = r.Carriers[0].Name }},
		{name: "unknown distance city", mutate: func(r *domain.ReferenceTables) {
			r.Distances = append(r.Distances, domain.KnownDistance{From: "Moscow", To: "Atlantis", DistanceKm: 10})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultReferenceTables()
			tt.mutate(&tables)

			_, err := New(tables, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestSubstreamFor(t *testing.T) {
	a := SubstreamFor(7, 1).Int63()
	b := SubstreamFor(7, 1).Int63()
	c := SubstreamFor(7, 2).Int63()
	d := SubstreamFor(8, 1).Int63()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, int64(12), ResolveSeed(12))
	assert.NotZero(t, ResolveSeed(0))
}
