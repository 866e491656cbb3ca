package dataset

import (
	"math/rand"
	"sort"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// Default sample parameters
const (
	DefaultSampleSize = 100
	DefaultSampleSeed = 42
)

// Sample draws size records without replacement using a fixed seed, so the
// same table always yields the same sample. Selected records keep their
// table order. A size at or above the table length returns every record.
func Sample(records []domain.ShipmentRecord, size int, seed int64) []domain.ShipmentRecord {
	if size <= 0 {
		return []domain.ShipmentRecord{}
	}
	if size >= len(records) {
		out := make([]domain.ShipmentRecord, len(records))
		copy(out, records)
		return out
	}

	picked := rand.New(rand.NewSource(seed)).Perm(len(records))[:size]
	sort.Ints(picked)

	out := make([]domain.ShipmentRecord, size)
	for i, idx := range picked {
		out[i] = records[idx]
	}
	return out
}
