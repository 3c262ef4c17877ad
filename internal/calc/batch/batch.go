package batch

import (
	"fmt"
	"math"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/units"
)

const MaxRows = 5000

type Range struct {
	FromM    float64 `json:"from_m"`
	ToM      float64 `json:"to_m"`
	StepM    float64 `json:"step_m"`
	PumpRate float64 `json:"pump_rate"`
	RateUnit string  `json:"rate_unit"`
}

type SweepInput struct {
	Range
	Sections []geometry.SectionSpec  `json:"sections"`
	Casing   []geometry.IntervalSpec `json:"casing"`
}

type Row struct {
	DepthM          float64 `json:"depth_m"`
	AnnularAreaM2   float64 `json:"annular_area_m2"`
	VelocityMMin    float64 `json:"velocity_m_min"`
	AverageVelocity float64 `json:"average_velocity_m_min"`
	InternalM3      float64 `json:"internal_m3"`
	AnnularM3       float64 `json:"annular_m3"`
	BottomsUpMin    float64 `json:"bottoms_up_min"`
}

type SweepResult struct {
	RateM3Min float64 `json:"rate_m3_min"`
	Rows      []Row   `json:"rows"`
}

func depths(rg Range) ([]float64, error) {
	for _, v := range []float64{rg.FromM, rg.ToM, rg.StepM} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, calcerr.Validation("range values must be finite, got %g..%g step %g m", rg.FromM, rg.ToM, rg.StepM)
		}
	}
	if rg.FromM < 0 || rg.ToM < rg.FromM {
		return nil, calcerr.Validation("bad depth range %g..%g m", rg.FromM, rg.ToM)
	}
	if rg.StepM <= 0 {
		return nil, calcerr.Validation("step must be > 0, got %g m", rg.StepM)
	}
	// compared as a float, int(+Inf) is undefined
	steps := math.Floor((rg.ToM-rg.FromM)/rg.StepM + 1e-9)
	if math.IsInf(steps, 0) || steps+1 > MaxRows {
		return nil, calcerr.Validation("%g rows requested, limit is %d", steps+1, MaxRows)
	}
	n := int(steps) + 1
	out := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, rg.FromM+float64(i)*rg.StepM)
	}
	if last := out[len(out)-1]; rg.ToM-last > 1e-9 {
		out = append(out, rg.ToM)
	}
	return out, nil
}

// Sweep evaluates the resolver at every step of the range; the last row is
// always at ToM.
func Sweep(ct *geometry.CTString, profile *geometry.CasingProfile, rg Range) (SweepResult, error) {
	rate, err := units.RateToM3PerMin(rg.PumpRate, rg.RateUnit)
	if err != nil {
		return SweepResult{}, err
	}
	ds, err := depths(rg)
	if err != nil {
		return SweepResult{}, err
	}
	r := resolver.New(ct, profile)
	out := SweepResult{RateM3Min: rate, Rows: make([]Row, 0, len(ds))}
	for _, d := range ds {
		area, err := r.AnnularAreaAt(d)
		if err != nil {
			return SweepResult{}, fmt.Errorf("at %g m: %w", d, err)
		}
		avg, err := r.AverageVelocityToDepth(d, rate)
		if err != nil {
			return SweepResult{}, fmt.Errorf("at %g m: %w", d, err)
		}
		vol, err := r.VolumesToDepth(d)
		if err != nil {
			return SweepResult{}, fmt.Errorf("at %g m: %w", d, err)
		}
		out.Rows = append(out.Rows, Row{
			DepthM:          d,
			AnnularAreaM2:   area,
			VelocityMMin:    rate / area,
			AverageVelocity: avg,
			InternalM3:      vol.Internal,
			AnnularM3:       vol.Annular,
			BottomsUpMin:    vol.Annular / rate,
		})
	}
	return out, nil
}

func SweepPlain(in SweepInput) (SweepResult, error) {
	ct, err := geometry.BuildString("input", in.Sections)
	if err != nil {
		return SweepResult{}, err
	}
	profile, err := geometry.BuildProfile(in.Casing)
	if err != nil {
		return SweepResult{}, err
	}
	return Sweep(ct, profile, in.Range)
}
