package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/generator"
	"github.com/burevuh-next/logistics-analyzer/internal/shared/testutil"
)

func newBuilder(t *testing.T, workers int) *Builder {
	t.Helper()
	gen, err := generator.New(generator.DefaultReferenceTables(), nil)
	require.NoError(t, err)
	return NewBuilder(gen, BuilderConfig{Workers: workers}, nil)
}

func TestBuild_CountAndIDs(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{name: "empty", count: 0},
		{name: "single", count: 1},
		{name: "default size", count: 1500},
		{name: "not divisible by workers", count: 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := newBuilder(t, 4).Build(context.Background(), tt.count, 42)
			require.NoError(t, err)
			require.Equal(t, tt.count, ds.Len())
			assert.Equal(t, int64(42), ds.Seed)

			for i, rec := range ds.Records {
				require.Equal(t, i+1, rec.ShipmentID)
				require.NotEmpty(t, rec.Carrier)
			}
		})
	}
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	seq, err := newBuilder(t, 1).Build(context.Background(), 700, 2024)
	require.NoError(t, err)

	par, err := newBuilder(t, 8).Build(context.Background(), 700, 2024)
	require.NoError(t, err)

	assert.Equal(t, seq.Records, par.Records)
}

func TestBuild_SeedChangesOutput(t *testing.T) {
	a, err := newBuilder(t, 2).Build(context.Background(), 50, 1)
	require.NoError(t, err)
	b, err := newBuilder(t, 2).Build(context.Background(), 50, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.Records, b.Records)
}

func TestBuild_TimeSeed(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	gen, err := generator.New(generator.DefaultReferenceTables(), nil)
	require.NoError(t, err)

	ds, err := NewBuilder(gen, DefaultBuilderConfig(), logger).Build(context.Background(), 10, 0)
	require.NoError(t, err)

	assert.NotZero(t, ds.Seed)
	assert.True(t, logs.ContainsAttr("seed", ds.Seed), "chosen seed is logged")
}

func TestBuild_Errors(t *testing.T) {
	t.Run("negative count", func(t *testing.T) {
		_, err := newBuilder(t, 2).Build(context.Background(), -1, 1)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newBuilder(t, 2).Build(ctx, 1000, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
