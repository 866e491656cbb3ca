package testutil

import (
	"time"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// Shipment builds a delivered record with the fields the aggregations read.
// Callers override anything else on the returned value.
func Shipment(id int, from, to, carrier string, distanceKm, weightKg int, cost float64) domain.ShipmentRecord {
	days := 3
	return domain.ShipmentRecord{
		ShipmentID:         id,
		FromCity:           from,
		ToCity:             to,
		DistanceKm:         distanceKm,
		WeightKg:           weightKg,
		VolumeM3:           float64(weightKg) / 1000,
		CargoType:          "Clothing",
		Carrier:            carrier,
		CostRub:            cost,
		BaseCostPerKm:      20,
		Date:               time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
		Status:             domain.StatusDelivered,
		DeliveryDays:       &days,
		CarrierReliability: 0.95,
		CargoFragility:     0.2,
		CustomerID:         1000 + id,
		CustomerSegment:    domain.SegmentA,
		Priority:           domain.PriorityStandard,
		PaymentMethod:      domain.PaymentPrepaid,
	}
}

// WithMonth returns a copy of r carrying the month attribute
func WithMonth(r domain.ShipmentRecord, month int) domain.ShipmentRecord {
	r.Month = month
	return r
}
