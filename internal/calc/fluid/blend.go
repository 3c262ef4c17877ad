package fluid

import (
	"math"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

// Additive is a chemical dosed at Rate litres per cubic metre of blend.
type Additive struct {
	Name    string  `json:"name"`
	Density float64 `json:"density_kg_m3"`
	Rate    float64 `json:"rate_l_m3"`
}

type Input struct {
	BaseDensity float64    `json:"base_density_kg_m3"`
	Additives   []Additive `json:"additives"`
}

type Result struct {
	DensityKgM3   float64 `json:"density_kg_m3"`
	SpecificGrav  float64 `json:"specific_gravity"`
	AdditiveLM3   float64 `json:"additive_l_m3"`
	BaseFractionL float64 `json:"base_l_m3"`
	Notes         string  `json:"notes"`
}

// Validate checks additive densities and rates, and that together they fit
// in one cubic metre. It returns the summed rate in L/m3.
func Validate(additives []Additive) (float64, error) {
	var rates float64
	for _, a := range additives {
		if a.Density <= 0 || math.IsNaN(a.Density) {
			return 0, calcerr.Validation("additive %q density must be > 0, got %g kg/m3", a.Name, a.Density)
		}
		if a.Rate < 0 || math.IsNaN(a.Rate) {
			return 0, calcerr.Validation("additive %q rate must be >= 0, got %g L/m3", a.Name, a.Rate)
		}
		rates += a.Rate
	}
	if rates > 1000 {
		return 0, calcerr.Validation("additives total %g L/m3, more than the base volume", rates)
	}
	return rates, nil
}

// Blend returns the density of one cubic metre made of base fluid and
// additives: [base*(1000 - sum(rate)) + sum(density*rate)] / 1000.
func Blend(base float64, additives []Additive) (float64, error) {
	d, _, err := blend(base, additives)
	return d, err
}

func blend(base float64, additives []Additive) (density, rates float64, err error) {
	if base <= 0 || math.IsNaN(base) {
		return 0, 0, calcerr.Validation("base density must be > 0, got %g kg/m3", base)
	}
	if rates, err = Validate(additives); err != nil {
		return 0, 0, err
	}
	mass := 0.0
	for _, a := range additives {
		mass += a.Density * a.Rate
	}
	return (base*(1000-rates) + mass) / 1000, rates, nil
}

func Calculate(in Input) (Result, error) {
	d, total, err := blend(in.BaseDensity, in.Additives)
	if err != nil {
		return Result{}, err
	}
	return Result{
		DensityKgM3:   d,
		SpecificGrav:  d / 1000,
		AdditiveLM3:   total,
		BaseFractionL: 1000 - total,
		Notes:         "Additive rates in L per m3 of blend; volumes assumed additive.",
	}, nil
}
