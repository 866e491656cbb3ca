package domain

// CityWeight is a city together with its relative sampling weight as an origin
type CityWeight struct {
	Name   string  `json:"name" yaml:"name" validate:"required"`
	Weight float64 `json:"weight" yaml:"weight" validate:"gte=0"`
}

// CarrierProfile describes a carrier's pricing and reliability
type CarrierProfile struct {
	Name        string  `json:"name" yaml:"name" validate:"required"`
	PriceFactor float64 `json:"price_factor" yaml:"price_factor" validate:"gt=0"`
	Reliability float64 `json:"reliability" yaml:"reliability" validate:"gte=0,lte=1"`
}

// CargoProfile describes the physical and pricing profile of a cargo type
type CargoProfile struct {
	Type        string  `json:"type" yaml:"type" validate:"required"`
	Fragility   float64 `json:"fragility" yaml:"fragility" validate:"gte=0,lte=1"`
	Density     float64 `json:"density" yaml:"density" validate:"gt=0"`
	PriceFactor float64 `json:"price_factor" yaml:"price_factor" validate:"gt=0"`
}

// KnownDistance is one entry of the partial distance table
type KnownDistance struct {
	From       string `json:"from" yaml:"from" validate:"required"`
	To         string `json:"to" yaml:"to" validate:"required,nefield=From"`
	DistanceKm int    `json:"distance_km" yaml:"distance_km" validate:"gt=0"`
}

// ReferenceTables holds the immutable inputs of a generation run.
// Distances are directional: a Moscow->Kazan entry says nothing about Kazan->Moscow.
type ReferenceTables struct {
	Cities     []CityWeight     `json:"cities" yaml:"cities" validate:"min=2,unique=Name,dive"`
	Carriers   []CarrierProfile `json:"carriers" yaml:"carriers" validate:"min=1,unique=Name,dive"`
	CargoTypes []CargoProfile   `json:"cargo_types" yaml:"cargo_types" validate:"min=1,unique=Type,dive"`
	Distances  []KnownDistance  `json:"distances" yaml:"distances" validate:"dive"`
}

// DistanceIndex builds a lookup map over the known distances
func (t ReferenceTables) DistanceIndex() map[RouteKey]int {
	index := make(map[RouteKey]int, len(t.Distances))
	for _, d := range t.Distances {
		index[RouteKey{From: d.From, To: d.To}] = d.DistanceKm
	}
	return index
}

// CityNames returns the city names in table order
func (t ReferenceTables) CityNames() []string {
	names := make([]string, len(t.Cities))
	for i, c := range t.Cities {
		names[i] = c.Name
	}
	return names
}
