package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// ErrUndefinedRatio is reported when a ratio has a zero denominator
var ErrUndefinedRatio = errors.New("ratio undefined: zero denominator")

// Ratio is a quotient that may be undefined. Undefined ratios encode as
// JSON null and print as "undefined"; they are never silently zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// NewRatio divides num by den, leaving the result undefined when den is zero
func NewRatio(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Defined: true}
}

// DefinedRatio wraps an already computed value
func DefinedRatio(v float64) Ratio {
	return Ratio{Value: v, Defined: true}
}

// Float returns the value or ErrUndefinedRatio
func (r Ratio) Float() (float64, error) {
	if !r.Defined {
		return 0, ErrUndefinedRatio
	}
	return r.Value, nil
}

// Less orders defined ratios ascending with undefined ratios last
func (r Ratio) Less(o Ratio) bool {
	if r.Defined != o.Defined {
		return r.Defined
	}
	return r.Value < o.Value
}

// Format renders the ratio with the given number of decimals
func (r Ratio) Format(decimals int) string {
	if !r.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.Value, 'f', decimals, 64)
}

func (r Ratio) String() string {
	return r.Format(2)
}

// MarshalJSON implements json.Marshaler
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = DefinedRatio(v)
	return nil
}

// RouteCount pairs a route with its shipment count
type RouteCount struct {
	Route     RouteKey `json:"route"`
	Shipments int      `json:"shipments"`
}

// KPISet holds dataset-wide key performance indicators.
// Averages over an empty eligible set are zero.
type KPISet struct {
	TotalShipments  int         `json:"total_shipments"`
	TotalCost       float64     `json:"total_cost"`
	TotalDistance   int64       `json:"total_distance"`
	TotalWeight     int64       `json:"total_weight"`
	AvgCostPerKm    float64     `json:"avg_cost_per_km"`
	AvgCostPerKg    float64     `json:"avg_cost_per_kg"`
	AvgDistance     float64     `json:"avg_distance"`
	AvgWeight       float64     `json:"avg_weight"`
	MostCommonRoute *RouteCount `json:"most_common_route,omitempty"`
}

// CarrierStats aggregates the shipments of one carrier
type CarrierStats struct {
	Carrier       string  `json:"carrier"`
	Shipments     int     `json:"shipments"`
	TotalCost     float64 `json:"total_cost"`
	TotalDistance int64   `json:"total_distance"`
	TotalWeight   int64   `json:"total_weight"`
	AvgCost       float64 `json:"avg_cost"`
	MedianCost    float64 `json:"median_cost"`
	AvgDistance   float64 `json:"avg_distance"`
	AvgWeight     float64 `json:"avg_weight"`
	// AvgCostPerKm and AvgCostPerKg are ratios of totals.
	AvgCostPerKm Ratio `json:"avg_cost_per_km"`
	AvgCostPerKg Ratio `json:"avg_cost_per_kg"`
	// Efficiency is the mean of per-shipment cost per km, lower is better.
	Efficiency Ratio `json:"efficiency"`
}

// ProfitableRoute is the cheapest-per-km shipment observed on a route
type ProfitableRoute struct {
	Route      RouteKey `json:"route"`
	ShipmentID int      `json:"shipment_id"`
	Carrier    string   `json:"carrier"`
	CostRub    float64  `json:"cost_rub"`
	DistanceKm int      `json:"distance_km"`
	CostPerKm  float64  `json:"cost_per_km"`
}

// RouteStats aggregates the shipments of one ordered city pair
type RouteStats struct {
	Route        RouteKey `json:"route"`
	Shipments    int      `json:"shipments"`
	TotalCost    float64  `json:"total_cost"`
	AvgCost      float64  `json:"avg_cost"`
	AvgDistance  float64  `json:"avg_distance"`
	AvgCostPerKm Ratio    `json:"avg_cost_per_km"`
}

// MonthStats aggregates shipments of one calendar month
type MonthStats struct {
	Month       int     `json:"month"`
	Shipments   int     `json:"shipments"`
	TotalCost   float64 `json:"total_cost"`
	TotalWeight int64   `json:"total_weight"`
}

// SeasonalReport is the per-month breakdown. Applicable is false when the
// analysed table carries no month attribute.
type SeasonalReport struct {
	Applicable   bool         `json:"applicable"`
	Months       []MonthStats `json:"months,omitempty"`
	BusiestMonth int          `json:"busiest_month,omitempty"`
}

// ColumnStats is a descriptive summary of one numeric column
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// NamedCount pairs a label with an occurrence count
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DatasetSummary describes a generated or loaded table
type DatasetSummary struct {
	Records         int          `json:"records"`
	DateFrom        time.Time    `json:"date_from"`
	DateTo          time.Time    `json:"date_to"`
	OriginCities    int          `json:"origin_cities"`
	Carriers        int          `json:"carriers"`
	CargoTypes      int          `json:"cargo_types"`
	TotalCost       float64      `json:"total_cost"`
	AvgCost         float64      `json:"avg_cost"`
	TotalWeight     int64        `json:"total_weight"`
	TopOriginCities []NamedCount `json:"top_origin_cities"`
	TopCarriers     []NamedCount `json:"top_carriers"`
}

// AnalysisWarning records a non-fatal condition found during aggregation
type AnalysisWarning struct {
	Group   string `json:"group"`
	Metric  string `json:"metric"`
	Message string `json:"message"`
}

// AnalysisReport bundles every derived view of a table
type AnalysisReport struct {
	Source            string            `json:"source"`
	GeneratedAt       time.Time         `json:"generated_at"`
	KPIs              KPISet            `json:"kpis"`
	Carriers          []CarrierStats    `json:"carriers"`
	EfficientCarriers []CarrierStats    `json:"efficient_carriers"`
	ProfitableRoutes  []ProfitableRoute `json:"profitable_routes"`
	PopularRoutes     []RouteStats      `json:"popular_routes"`
	ExpensiveRoutes   []RouteStats      `json:"expensive_routes"`
	Seasonal          SeasonalReport    `json:"seasonal"`
	Warnings          []AnalysisWarning `json:"warnings,omitempty"`
}
