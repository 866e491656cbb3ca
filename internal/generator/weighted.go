package generator

import (
	"fmt"
	"sort"
)

// WeightedChoice samples items proportionally to non-negative weights.
// Weights need not sum to one; zero-weight items are never chosen.
type WeightedChoice[T any] struct {
	items      []T
	cumulative []float64
	total      float64
}

// NewWeightedChoice validates the weights and precomputes cumulative sums
func NewWeightedChoice[T any](items []T, weights []float64) (*WeightedChoice[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("weighted choice needs at least one item")
	}
	if len(items) != len(weights) {
		return nil, fmt.Errorf("weighted choice has %d items but %d weights", len(items), len(weights))
	}

	cumulative := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight %d is negative: %v", i, w)
		}
		total += w
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, fmt.Errorf("weights must have a positive total")
	}

	return &WeightedChoice[T]{items: items, cumulative: cumulative, total: total}, nil
}

// Pick returns one item together with its index
func (w *WeightedChoice[T]) Pick(rng Source) (T, int) {
	r := rng.Float64() * w.total
	idx := sort.Search(len(w.cumulative), func(i int) bool { return w.cumulative[i] > r })
	if idx == len(w.cumulative) {
		// r rounded up to the total: fall back to the last item with weight
		idx = len(w.cumulative) - 1
		for idx > 0 && w.cumulative[idx] == w.cumulative[idx-1] {
			idx--
		}
	}
	return w.items[idx], idx
}

// Len returns the number of items
func (w *WeightedChoice[T]) Len() int {
	return len(w.items)
}
