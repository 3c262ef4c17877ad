package pressure

import (
	"math"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

const (
	G        = 9.80665
	PaPerPsi = 6894.757293
	PaPerBar = 1e5
)

type Input struct {
	DensityKgM3 float64 `json:"density_kg_m3"`
	TVDM        float64 `json:"tvd_m"`
}

type Result struct {
	Pa           float64 `json:"pa"`
	KPa          float64 `json:"kpa"`
	MPa          float64 `json:"mpa"`
	PSI          float64 `json:"psi"`
	Bar          float64 `json:"bar"`
	GradientKPaM float64 `json:"gradient_kpa_m"`
	Notes        string  `json:"notes"`
}

// Hydrostatic returns the pressure of a static fluid column. The gradient is
// reported as zero at surface.
func Hydrostatic(density, tvd float64) (Result, error) {
	if density <= 0 || math.IsNaN(density) {
		return Result{}, calcerr.Validation("density must be > 0, got %g kg/m3", density)
	}
	if tvd < 0 || math.IsNaN(tvd) {
		return Result{}, calcerr.Validation("TVD must be >= 0, got %g m", tvd)
	}
	pa := density * G * tvd
	res := Result{
		Pa:    pa,
		KPa:   pa / 1e3,
		MPa:   pa / 1e6,
		PSI:   pa / PaPerPsi,
		Bar:   pa / PaPerBar,
		Notes: "Static column, g = 9.80665 m/s2.",
	}
	if tvd > 0 {
		res.GradientKPaM = res.KPa / tvd
	}
	return res, nil
}

func Calculate(in Input) (Result, error) {
	return Hydrostatic(in.DensityKgM3, in.TVDM)
}
