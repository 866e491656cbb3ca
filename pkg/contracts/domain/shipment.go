package domain

import (
	"time"
)

// DateLayout is the calendar date format used in every tabular export.
const DateLayout = "2006-01-02"

// ShipmentStatus represents the lifecycle state of a shipment
type ShipmentStatus string

const (
	StatusDelivered        ShipmentStatus = "Delivered"
	StatusInTransit        ShipmentStatus = "InTransit"
	StatusAwaitingDispatch ShipmentStatus = "AwaitingDispatch"
	StatusDelayed          ShipmentStatus = "Delayed"
	StatusCancelled        ShipmentStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses
func (s ShipmentStatus) Valid() bool {
	switch s {
	case StatusDelivered, StatusInTransit, StatusAwaitingDispatch, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

// CustomerSegment is the customer tier
type CustomerSegment string

const (
	SegmentA CustomerSegment = "A"
	SegmentB CustomerSegment = "B"
	SegmentC CustomerSegment = "C"
)

// AllSegments lists segments in sampling order
var AllSegments = []CustomerSegment{SegmentA, SegmentB, SegmentC}

// Priority is the requested service level
type Priority string

const (
	PriorityStandard     Priority = "Standard"
	PriorityExpress      Priority = "Express"
	PrioritySuperExpress Priority = "SuperExpress"
)

// AllPriorities lists priorities in sampling order
var AllPriorities = []Priority{PriorityStandard, PriorityExpress, PrioritySuperExpress}

// PaymentMethod describes how the shipment is paid
type PaymentMethod string

const (
	PaymentPrepaid  PaymentMethod = "Prepaid"
	PaymentPostpaid PaymentMethod = "Postpaid"
	PaymentSplit    PaymentMethod = "Split"
)

// AllPaymentMethods lists payment methods in sampling order
var AllPaymentMethods = []PaymentMethod{PaymentPrepaid, PaymentPostpaid, PaymentSplit}

// ShipmentRecord is one row of the shipment table.
//
// Records are immutable once produced by the generator or the loader.
// DeliveryDays is non-nil only for delivered shipments. Month is zero
// when the source table carries no month attribute.
type ShipmentRecord struct {
	ShipmentID         int             `json:"shipment_id"`
	FromCity           string          `json:"from_city"`
	ToCity             string          `json:"to_city"`
	DistanceKm         int             `json:"distance_km"`
	WeightKg           int             `json:"weight_kg"`
	VolumeM3           float64         `json:"volume_m3"`
	CargoType          string          `json:"cargo_type"`
	Carrier            string          `json:"carrier"`
	CostRub            float64         `json:"cost_rub"`
	BaseCostPerKm      float64         `json:"base_cost_per_km"`
	Date               time.Time       `json:"date"`
	Status             ShipmentStatus  `json:"status"`
	DeliveryDays       *int            `json:"delivery_days,omitempty"`
	CarrierReliability float64         `json:"carrier_reliability"`
	CargoFragility     float64         `json:"cargo_fragility"`
	CustomerID         int             `json:"customer_id"`
	CustomerSegment    CustomerSegment `json:"customer_segment"`
	Insurance          bool            `json:"insurance"`
	InsuranceCost      float64         `json:"insurance_cost"`
	FuelSurcharge      float64         `json:"fuel_surcharge"`
	Priority           Priority        `json:"priority"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	HasReturn          bool            `json:"has_return"`
	ReturnCost         float64         `json:"return_cost"`
	Month              int             `json:"month,omitempty"`
}

// Route returns the ordered (origin, destination) key of the record
func (r ShipmentRecord) Route() RouteKey {
	return RouteKey{From: r.FromCity, To: r.ToCity}
}

// CostPerKm returns the per-record cost per kilometre
func (r ShipmentRecord) CostPerKm() Ratio {
	return NewRatio(r.CostRub, float64(r.DistanceKm))
}

// CostPerKg returns the per-record cost per kilogram
func (r ShipmentRecord) CostPerKg() Ratio {
	return NewRatio(r.CostRub, float64(r.WeightKg))
}

// HasMonth reports whether the record carries a month attribute
func (r ShipmentRecord) HasMonth() bool {
	return r.Month >= 1 && r.Month <= 12
}

// RouteKey identifies an ordered city pair
type RouteKey struct {
	From string `json:"from_city"`
	To   string `json:"to_city"`
}

// String renders the route as "From -> To"
func (k RouteKey) String() string {
	return k.From + " -> " + k.To
}

// Shipment table column names
const (
	ColShipmentID         = "shipment_id"
	ColFromCity           = "from_city"
	ColToCity             = "to_city"
	ColDistanceKm         = "distance_km"
	ColWeightKg           = "weight_kg"
	ColVolumeM3           = "volume_m3"
	ColCargoType          = "cargo_type"
	ColCarrier            = "carrier"
	ColCostRub            = "cost_rub"
	ColBaseCostPerKm      = "base_cost_per_km"
	ColDate               = "date"
	ColStatus             = "status"
	ColDeliveryDays       = "delivery_days"
	ColCarrierReliability = "carrier_reliability"
	ColCargoFragility     = "cargo_fragility"
	ColCustomerID         = "customer_id"
	ColCustomerSegment    = "customer_segment"
	ColInsurance          = "insurance"
	ColInsuranceCost      = "insurance_cost"
	ColFuelSurcharge      = "fuel_surcharge"
	ColPriority           = "priority"
	ColPaymentMethod      = "payment_method"
	ColHasReturn          = "has_return"
	ColReturnCost         = "return_cost"
	ColMonth              = "month"
)

// ShipmentColumns is the export column order. The optional month column is
// appended only when a table carries it.
var ShipmentColumns = []string{
	ColShipmentID, ColFromCity, ColToCity, ColDistanceKm, ColWeightKg,
	ColVolumeM3, ColCargoType, ColCarrier, ColCostRub, ColBaseCostPerKm,
	ColDate, ColStatus, ColDeliveryDays, ColCarrierReliability, ColCargoFragility,
	ColCustomerID, ColCustomerSegment, ColInsurance, ColInsuranceCost,
	ColFuelSurcharge, ColPriority, ColPaymentMethod, ColHasReturn, ColReturnCost,
}

// RequiredColumns must be present in any loaded table
var RequiredColumns = []string{
	ColFromCity, ColToCity, ColDistanceKm, ColWeightKg, ColCarrier, ColCostRub, ColDate,
}
