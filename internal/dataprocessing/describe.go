package dataprocessing

import (
	"math"
	"slices"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// numericColumn extracts one numeric column; ok is false for absent values
type numericColumn struct {
	name  string
	value func(r domain.ShipmentRecord) (v float64, ok bool)
}

func always(f func(r domain.ShipmentRecord) float64) func(domain.ShipmentRecord) (float64, bool) {
	return func(r domain.ShipmentRecord) (float64, bool) { return f(r), true }
}

var describedColumns = []numericColumn{
	{domain.ColShipmentID, always(func(r domain.ShipmentRecord) float64 { return float64(r.ShipmentID) })},
	{domain.ColDistanceKm, always(func(r domain.ShipmentRecord) float64 { return float64(r.DistanceKm) })},
	{domain.ColWeightKg, always(func(r domain.ShipmentRecord) float64 { return float64(r.WeightKg) })},
	{domain.ColVolumeM3, always(func(r domain.ShipmentRecord) float64 { return r.VolumeM3 })},
	{domain.ColCostRub, always(func(r domain.ShipmentRecord) float64 { return r.CostRub })},
	{domain.ColBaseCostPerKm, always(func(r domain.ShipmentRecord) float64 { return r.BaseCostPerKm })},
	{domain.ColDeliveryDays, func(r domain.ShipmentRecord) (float64, bool) {
		if r.DeliveryDays == nil {
			return 0, false
		}
		return float64(*r.DeliveryDays), true
	}},
	{domain.ColCarrierReliability, always(func(r domain.ShipmentRecord) float64 { return r.CarrierReliability })},
	{domain.ColCargoFragility, always(func(r domain.ShipmentRecord) float64 { return r.CargoFragility })},
	{domain.ColCustomerID, always(func(r domain.ShipmentRecord) float64 { return float64(r.CustomerID) })},
	{domain.ColInsuranceCost, always(func(r domain.ShipmentRecord) float64 { return r.InsuranceCost })},
	{domain.ColFuelSurcharge, always(func(r domain.ShipmentRecord) float64 { return r.FuelSurcharge })},
	{domain.ColReturnCost, always(func(r domain.ShipmentRecord) float64 { return r.ReturnCost })},
	{domain.ColMonth, func(r domain.ShipmentRecord) (float64, bool) { return float64(r.Month), r.HasMonth() }},
}

// Describe summarizes every numeric column: count, mean, sample standard
// deviation, min, quartiles and max. Columns without any value are omitted.
// Quartiles interpolate linearly between closest ranks.
func Describe(records []domain.ShipmentRecord) []domain.ColumnStats {
	out := make([]domain.ColumnStats, 0, len(describedColumns))
	values := make([]float64, 0, len(records))
	for _, col := range describedColumns {
		values = values[:0]
		for _, r := range records {
			if v, ok := col.value(r); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, describeValues(col.name, values))
	}
	return out
}

func describeValues(name string, values []float64) domain.ColumnStats {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	mean := sum / float64(n)

	var std float64
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return domain.ColumnStats{
		Column: name,
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// quantile expects sorted input
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
