package resolver

import (
	"fmt"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/units"
)

type Params struct {
	DepthM       float64 `json:"depth_m"`
	PumpRate     float64 `json:"pump_rate"`
	RateUnit     string  `json:"rate_unit"`
	VelocityUnit string  `json:"velocity_unit"`
}

// Input is a self-contained request: the geometry travels with the numbers.
type Input struct {
	Params
	Sections     []geometry.SectionSpec     `json:"sections"`
	Casing       []geometry.IntervalSpec    `json:"casing"`
	Restrictions []geometry.RestrictionSpec `json:"restrictions"`
}

type Result struct {
	DepthM          float64           `json:"depth_m"`
	RateM3Min       float64           `json:"rate_m3_min"`
	AnnularAreaM2   float64           `json:"annular_area_m2"`
	Velocity        float64           `json:"velocity"`
	AverageVelocity float64           `json:"average_velocity"`
	VelocityUnit    string            `json:"velocity_unit"`
	Volumes         Volumes           `json:"volumes"`
	BottomsUpMin    float64           `json:"bottoms_up_min"`
	CirculationMin  float64           `json:"circulation_min"`
	Segments        []AnnularSegment  `json:"segments"`
	Clearance       []ClearanceResult `json:"clearance,omitempty"`
	Notes           string            `json:"notes"`
}

func CalculateInput(in Input) (Result, error) {
	ct, err := geometry.BuildString("input", in.Sections)
	if err != nil {
		return Result{}, err
	}
	profile, err := geometry.BuildProfile(in.Casing)
	if err != nil {
		return Result{}, err
	}
	restrictions, err := geometry.BuildRestrictions(in.Restrictions)
	if err != nil {
		return Result{}, err
	}
	return Calculate(ct, profile, restrictions, in.Params)
}

func Calculate(ct *geometry.CTString, profile *geometry.CasingProfile, restrictions []geometry.Restriction, p Params) (Result, error) {
	rate, err := units.RateToM3PerMin(p.PumpRate, p.RateUnit)
	if err != nil {
		return Result{}, err
	}
	if err := checkRate(rate); err != nil {
		return Result{}, err
	}
	if p.VelocityUnit == "" {
		p.VelocityUnit = units.VelocityMPerMin
	}
	r := New(ct, profile)

	area, err := r.AnnularAreaAt(p.DepthM)
	if err != nil {
		return Result{}, err
	}
	segs, err := r.Segments(p.DepthM)
	if err != nil {
		return Result{}, err
	}
	vol := r.volumes(segs, p.DepthM)

	v, err := units.VelocityFromMPerMin(rate/area, p.VelocityUnit)
	if err != nil {
		return Result{}, err
	}
	avg, err := units.VelocityFromMPerMin(averageVelocity(segs, rate), p.VelocityUnit)
	if err != nil {
		return Result{}, err
	}

	clr, err := r.Clearance(restrictions)
	if err != nil {
		return Result{}, err
	}
	notes := fmt.Sprintf("String %q, %d annular segments to %.1f m.", ct.Name(), len(segs), p.DepthM)
	for _, c := range clr {
		if !c.Pass {
			notes += fmt.Sprintf(" CT does not clear %s at %.1f m.", c.Name, c.DepthM)
		}
	}

	return Result{
		DepthM:          p.DepthM,
		RateM3Min:       rate,
		AnnularAreaM2:   area,
		Velocity:        v,
		AverageVelocity: avg,
		VelocityUnit:    p.VelocityUnit,
		Volumes:         vol,
		BottomsUpMin:    vol.Annular / rate,
		CirculationMin:  vol.TotalCirculating / rate,
		Segments:        segs,
		Clearance:       clr,
		Notes:           notes,
	}, nil
}
