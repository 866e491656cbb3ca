package generator

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// DefaultReferenceTables returns the built-in Russian freight market tables
func DefaultReferenceTables() domain.ReferenceTables {
	return domain.ReferenceTables{
		Cities: []domain.CityWeight{
			{Name: "Moscow", Weight: 0.25},
			{Name: "Saint Petersburg", Weight: 0.15},
			{Name: "Yekaterinburg", Weight: 0.10},
			{Name: "Novosibirsk", Weight: 0.10},
			{Name: "Kazan", Weight: 0.08},
			{Name: "Krasnoyarsk", Weight: 0.07},
			{Name: "Nizhny Novgorod", Weight: 0.06},
			{Name: "Chelyabinsk", Weight: 0.05},
			{Name: "Omsk", Weight: 0.05},
			{Name: "Samara", Weight: 0.04},
			{Name: "Rostov-on-Don", Weight: 0.03},
			{Name: "Ufa", Weight: 0.02},
		},
		Carriers: []domain.CarrierProfile{
			{Name: "Delovye Linii", PriceFactor: 1.0, Reliability: 0.95},
			{Name: "PEK", PriceFactor: 0.9, Reliability: 0.92},
			{Name: "ZhelDorEkspeditsiya", PriceFactor: 0.8, Reliability: 0.98},
			{Name: "Gruzovozoff", PriceFactor: 0.85, Reliability: 0.90},
			{Name: "Energiya", PriceFactor: 1.1, Reliability: 0.96},
			{Name: "Major Express", PriceFactor: 1.2, Reliability: 0.99},
			{Name: "Baikal Service", PriceFactor: 0.95, Reliability: 0.93},
			{Name: "Ratek", PriceFactor: 0.88, Reliability: 0.91},
		},
		CargoTypes: []domain.CargoProfile{
			{Type: "Electronics", Fragility: 0.8, Density: 0.3, PriceFactor: 1.5},
			{Type: "Clothing", Fragility: 0.2, Density: 0.4, PriceFactor: 1.0},
			{Type: "Food", Fragility: 0.6, Density: 0.7, PriceFactor: 1.2},
			{Type: "Building Materials", Fragility: 0.1, Density: 2.5, PriceFactor: 0.8},
			{Type: "Auto Parts", Fragility: 0.4, Density: 1.2, PriceFactor: 1.1},
			{Type: "Furniture", Fragility: 0.5, Density: 0.9, PriceFactor: 1.3},
			{Type: "Chemicals", Fragility: 0.7, Density: 1.1, PriceFactor: 1.4},
			{Type: "Medical Supplies", Fragility: 0.9, Density: 0.5, PriceFactor: 1.6},
			{Type: "Stationery", Fragility: 0.3, Density: 0.6, PriceFactor: 1.0},
			{Type: "Toys", Fragility: 0.4, Density: 0.4, PriceFactor: 1.1},
		},
		Distances: []domain.KnownDistance{
			{From: "Moscow", To: "Saint Petersburg", DistanceKm: 710},
			{From: "Moscow", To: "Yekaterinburg", DistanceKm: 1800},
			{From: "Moscow", To: "Novosibirsk", DistanceKm: 2800},
			{From: "Moscow", To: "Kazan", DistanceKm: 800},
			{From: "Moscow", To: "Nizhny Novgorod", DistanceKm: 400},
			{From: "Saint Petersburg", To: "Moscow", DistanceKm: 710},
			{From: "Saint Petersburg", To: "Yekaterinburg", DistanceKm: 2200},
			{From: "Yekaterinburg", To: "Novosibirsk", DistanceKm: 1500},
			{From: "Yekaterinburg", To: "Moscow", DistanceKm: 1800},
			{From: "Novosibirsk", To: "Krasnoyarsk", DistanceKm: 800},
			{From: "Kazan", To: "Moscow", DistanceKm: 800},
			{From: "Kazan", To: "Saint Petersburg", DistanceKm: 1500},
		},
	}
}

// LoadReferenceTables reads tables from a YAML file. An empty path returns
// the built-in tables. The result is validated before it is returned.
func LoadReferenceTables(path string) (domain.ReferenceTables, error) {
	if path == "" {
		return DefaultReferenceTables(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ReferenceTables{}, apperrors.NewConfigError("failed to read reference tables", err).
			WithContext("path", path)
	}

	var tables domain.ReferenceTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return domain.ReferenceTables{}, apperrors.NewConfigError("failed to parse reference tables", err).
			WithContext("path", path)
	}

	if err := ValidateReferenceTables(tables); err != nil {
		return domain.ReferenceTables{}, err
	}
	return tables, nil
}

var tableValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateReferenceTables checks field ranges, uniqueness, the city weight
// total and that every known distance names listed cities.
func ValidateReferenceTables(tables domain.ReferenceTables) error {
	if err := tableValidator.Struct(tables); err != nil {
		return apperrors.NewConfigError("invalid reference tables", describeValidation(err))
	}

	var total float64
	known := make(map[string]bool, len(tables.Cities))
	for _, c := range tables.Cities {
		total += c.Weight
		known[c.Name] = true
	}
	if total <= 0 {
		return apperrors.NewConfigError("city weights must have a positive total", nil)
	}

	for _, d := range tables.Distances {
		if !known[d.From] || !known[d.To] {
			return apperrors.NewConfigError(
				fmt.Sprintf("distance %s -> %s references an unknown city", d.From, d.To), nil)
		}
	}
	return nil
}

func describeValidation(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
