package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

func TestDefaultReferenceTables(t *testing.T) {
	tables := DefaultReferenceTables()

	require.NoError(t, ValidateReferenceTables(tables))
	assert.Len(t, tables.Cities, 12)
	assert.Len(t, tables.Carriers, 8)
	assert.Len(t, tables.CargoTypes, 10)

	index := tables.DistanceIndex()
	assert.Equal(t, 710, index[domain.RouteKey{From: "Moscow", To: "Saint Petersburg"}])
	_, reverse := index[domain.RouteKey{From: "Novosibirsk", To: "Moscow"}]
	assert.False(t, reverse, "distances are directional")
}

func TestLoadReferenceTables(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		tables, err := LoadReferenceTables("")
		require.NoError(t, err)
		assert.Equal(t, DefaultReferenceTables(), tables)
	})

	t.Run("valid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reference.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
cities:
  - {name: Alpha, weight: 3}
  - {name: Beta, weight: 1}
carriers:
  - {name: FastCo, price_factor: 1.1, reliability: 0.9}
cargo_types:
  - {type: Boxes, fragility: 0.1, density: 0.5, price_factor: 1.0}
distances:
  - {from: Alpha, to: Beta, distance_km: 420}
`), 0644))

		tables, err := LoadReferenceTables(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Beta"}, tables.CityNames())
		assert.Equal(t, 420, tables.DistanceIndex()[domain.RouteKey{From: "Alpha", To: "Beta"}])

		gen, err := New(tables, nil)
		require.NoError(t, err)
		rec := gen.Generate(1, NewSeededRNG(3))
		assert.Contains(t, []string{"Alpha", "Beta"}, rec.FromCity)
		assert.Equal(t, "FastCo", rec.Carrier)
	})

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "cities: [unclosed"},
		{name: "missing carriers", content: "cities:\n  - {name: A, weight: 1}\n  - {name: B, weight: 1}\ncargo_types:\n  - {type: X, fragility: 0, density: 1, price_factor: 1}\n"},
		{name: "fragility out of range", content: "cities:\n  - {name: A, weight: 1}\n  - {name: B, weight: 1}\ncarriers:\n  - {name: C, price_factor: 1, reliability: 1}\ncargo_types:\n  - {type: X, fragility: 2, density: 1, price_factor: 1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "reference.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadReferenceTables(path)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadReferenceTables(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})
}
