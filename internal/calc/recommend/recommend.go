package recommend

import (
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/units"
)

// DefaultTargetMMin is used when no target annular velocity is given.
const DefaultTargetMMin = 30.0

type RateInput struct {
	DepthM         float64                 `json:"depth_m"`
	TargetVelocity float64                 `json:"target_velocity_m_min"`
	Sections       []geometry.SectionSpec  `json:"sections"`
	Casing         []geometry.IntervalSpec `json:"casing"`
}

type RateResult struct {
	RequiredM3Min  float64 `json:"required_m3_min"`
	RequiredLMin   float64 `json:"required_l_min"`
	RequiredBblMin float64 `json:"required_bbl_min"`
	GoverningTopM  float64 `json:"governing_top_m"`
	GoverningBotM  float64 `json:"governing_bottom_m"`
	GoverningArea  float64 `json:"governing_area_m2"`
	Notes          string  `json:"notes"`
}

// MinimumRate returns the pump rate that keeps every annular segment down to
// depth at or above target m/min. The largest annulus governs.
func MinimumRate(ct *geometry.CTString, profile *geometry.CasingProfile, depth, target float64) (RateResult, error) {
	if target <= 0 {
		target = DefaultTargetMMin
	}
	segs, err := resolver.New(ct, profile).Segments(depth)
	if err != nil {
		return RateResult{}, err
	}
	if len(segs) == 0 {
		return RateResult{}, calcerr.Validation("no annulus above %g m", depth)
	}
	gov := segs[0]
	for _, s := range segs[1:] {
		if s.AreaM2 > gov.AreaM2 {
			gov = s
		}
	}
	q := target * gov.AreaM2
	return RateResult{
		RequiredM3Min:  q,
		RequiredLMin:   q * 1000,
		RequiredBblMin: q / units.M3PerBbl,
		GoverningTopM:  gov.TopM,
		GoverningBotM:  gov.BottomM,
		GoverningArea:  gov.AreaM2,
		Notes:          "Rate for the target annular velocity in the largest annulus.",
	}, nil
}

func Calculate(in RateInput) (RateResult, error) {
	ct, err := geometry.BuildString("input", in.Sections)
	if err != nil {
		return RateResult{}, err
	}
	profile, err := geometry.BuildProfile(in.Casing)
	if err != nil {
		return RateResult{}, err
	}
	return MinimumRate(ct, profile, in.DepthM, in.TargetVelocity)
}
