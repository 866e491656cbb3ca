package generator

import (
	"log/slog"
	"time"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// Distance and date constants of the cost model
const (
	MinSyntheticDistance = 300
	MaxSyntheticDistance = 3000
	DistanceJitter       = 100

	MinWeightKg = 50
	MaxWeightKg = 5000

	MinBaseCostPerKm = 15.0
	MaxBaseCostPerKm = 50.0

	LongHaulKm  = 2000
	ShortHaulKm = 500

	MinCustomerID = 1000
	MaxCustomerID = 9999

	// DateWindowDays spans 2023-01-01 through 2024-01-31 inclusive.
	DateWindowDays = 395
)

// DateWindowStart is the first possible shipment date
var DateWindowStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// statusWeights are the sampling weights of each status
var statusWeights = []struct {
	status domain.ShipmentStatus
	weight float64
}{
	{domain.StatusDelivered, 0.85},
	{domain.StatusInTransit, 0.08},
	{domain.StatusAwaitingDispatch, 0.04},
	{domain.StatusDelayed, 0.02},
	{domain.StatusCancelled, 0.01},
}

// Generator creates shipment records from immutable reference tables.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	tables    domain.ReferenceTables
	cities    []string
	origins   *WeightedChoice[int]
	statuses  *WeightedChoice[domain.ShipmentStatus]
	distances map[domain.RouteKey]int
	logger    *slog.Logger
}

// New validates the tables and prepares the sampling structures.
// Invalid tables yield a CONFIG error.
func New(tables domain.ReferenceTables, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ValidateReferenceTables(tables); err != nil {
		return nil, err
	}

	indices := make([]int, len(tables.Cities))
	weights := make([]float64, len(tables.Cities))
	for i, c := range tables.Cities {
		indices[i] = i
		weights[i] = c.Weight
	}
	origins, err := NewWeightedChoice(indices, weights)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.ShipmentStatus, len(statusWeights))
	statusW := make([]float64, len(statusWeights))
	for i, s := range statusWeights {
		statuses[i] = s.status
		statusW[i] = s.weight
	}
	statusChoice, err := NewWeightedChoice(statuses, statusW)
	if err != nil {
		return nil, err
	}

	logger.Debug("generator ready",
		slog.Int("cities", len(tables.Cities)),
		slog.Int("carriers", len(tables.Carriers)),
		slog.Int("cargo_types", len(tables.CargoTypes)),
		slog.Int("known_distances", len(tables.Distances)))

	return &Generator{
		tables:    tables,
		cities:    tables.CityNames(),
		origins:   origins,
		statuses:  statusChoice,
		distances: tables.DistanceIndex(),
		logger:    logger.With(slog.String("component", "generator")),
	}, nil
}

// Tables returns the reference tables the generator was built from
func (g *Generator) Tables() domain.ReferenceTables {
	return g.tables
}

// Generate produces the record with the given id. Draws are taken from rng
// in a fixed order, so a seeded rng makes the output reproducible.
func (g *Generator) Generate(id int, rng Source) domain.ShipmentRecord {
	originIdx, _ := g.origins.Pick(rng)
	from := g.cities[originIdx]

	destIdx := rng.Intn(len(g.cities) - 1)
	if destIdx >= originIdx {
		destIdx++
	}
	to := g.cities[destIdx]

	distance := g.distance(from, to, rng)

	carrier := g.tables.Carriers[rng.Intn(len(g.tables.Carriers))]
	cargo := g.tables.CargoTypes[rng.Intn(len(g.tables.CargoTypes))]

	weight := uniformInt(rng, MinWeightKg, MaxWeightKg)
	volume := round2(float64(weight) / 1000 * cargo.Density)

	base := uniformFloat(rng, MinBaseCostPerKm, MaxBaseCostPerKm)
	cost := base * float64(distance) *
		carrier.PriceFactor *
		cargo.PriceFactor *
		DistanceModifier(distance) *
		(1 + float64(weight)/10000) *
		uniformFloat(rng, 0.9, 1.1)
	cost = round2(cost)
	if cost < 0.01 {
		cost = 0.01
	}

	date := DateWindowStart.AddDate(0, 0, uniformInt(rng, 0, DateWindowDays))

	status, _ := g.statuses.Pick(rng)
	var deliveryDays *int
	if status == domain.StatusDelivered {
		days := DeliveryDays(distance, rng)
		deliveryDays = &days
	}

	rec := domain.ShipmentRecord{
		ShipmentID:         id,
		FromCity:           from,
		ToCity:             to,
		DistanceKm:         distance,
		WeightKg:           weight,
		VolumeM3:           volume,
		CargoType:          cargo.Type,
		Carrier:            carrier.Name,
		CostRub:            cost,
		BaseCostPerKm:      round2(base),
		Date:               date,
		Status:             status,
		DeliveryDays:       deliveryDays,
		CarrierReliability: carrier.Reliability,
		CargoFragility:     cargo.Fragility,
	}
	g.fillCommercialTerms(&rec, rng)

	return rec
}

// fillCommercialTerms draws the customer and billing attributes
func (g *Generator) fillCommercialTerms(rec *domain.ShipmentRecord, rng Source) {
	rec.CustomerID = uniformInt(rng, MinCustomerID, MaxCustomerID)
	rec.CustomerSegment = domain.AllSegments[rng.Intn(len(domain.AllSegments))]

	rec.Insurance = rng.Intn(2) == 1
	if rng.Float64() > 0.7 {
		rec.InsuranceCost = round2(rec.CostRub * 0.02)
	}
	rec.FuelSurcharge = round2(rec.CostRub * uniformFloat(rng, 0.05, 0.15))

	rec.Priority = domain.AllPriorities[rng.Intn(len(domain.AllPriorities))]
	rec.PaymentMethod = domain.AllPaymentMethods[rng.Intn(len(domain.AllPaymentMethods))]

	rec.HasReturn = rng.Float64() > 0.9
	// The return cost is drawn independently of HasReturn.
	if rng.Float64() > 0.9 {
		rec.ReturnCost = round2(rec.CostRub * 0.8)
	}
}

// distance returns the known distance or a synthesized one
func (g *Generator) distance(from, to string, rng Source) int {
	if d, ok := g.distances[domain.RouteKey{From: from, To: to}]; ok {
		return d
	}
	d := uniformInt(rng, MinSyntheticDistance, MaxSyntheticDistance) +
		uniformInt(rng, -DistanceJitter, DistanceJitter)
	if d < 1 {
		d = 1
	}
	return d
}

// DistanceModifier discounts long hauls and surcharges short ones.
// Exactly 500 and 2000 km are neutral.
func DistanceModifier(distanceKm int) float64 {
	switch {
	case distanceKm > LongHaulKm:
		return 0.9
	case distanceKm < ShortHaulKm:
		return 1.2
	default:
		return 1.0
	}
}

// DeliveryDays draws a transit time in [max(1, d/800), max(3, d/400)].
// The upper bound is raised to the lower bound if they ever cross.
func DeliveryDays(distanceKm int, rng Source) int {
	low := max(1, distanceKm/800)
	high := max(3, distanceKm/400)
	if low > high {
		high = low
	}
	return uniformInt(rng, low, high)
}
