// Package resolver walks a CT string and a casing profile together to get
// annular areas, velocities, volumes and circulation times by depth.
//
// Pump rates are in m³/min, velocities in m/min and times in minutes.
package resolver

import (
	"math"
	"sort"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
)

type Resolver struct {
	ct      *geometry.CTString
	profile *geometry.CasingProfile
}

// AnnularSegment is a depth range with constant casing ID and CT OD.
type AnnularSegment struct {
	TopM     float64 `json:"top_m"`
	BottomM  float64 `json:"bottom_m"`
	CasingID float64 `json:"casing_id_mm"`
	PipeOD   float64 `json:"pipe_od_mm"`
	AreaM2   float64 `json:"area_m2"`
}

func (s AnnularSegment) Length() float64 { return s.BottomM - s.TopM }

type Volumes struct {
	Internal         float64 `json:"internal_m3"`
	Annular          float64 `json:"annular_m3"`
	Displacement     float64 `json:"displacement_m3"`
	Hole             float64 `json:"hole_m3"`
	TotalCirculating float64 `json:"total_circulating_m3"`
}

func New(ct *geometry.CTString, profile *geometry.CasingProfile) *Resolver {
	return &Resolver{ct: ct, profile: profile}
}

func annularArea(casingID, pipeOD float64) float64 {
	return geometry.CircleArea(casingID) - geometry.CircleArea(pipeOD)
}

func checkDepth(depth float64) error {
	if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return calcerr.Validation("depth must be >= 0, got %g m", depth)
	}
	return nil
}

func checkRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return calcerr.Validation("pump rate must be > 0, got %g m3/min", rate)
	}
	return nil
}

// AnnularAreaAt is the flow area between the casing and the CT at depth, in m².
func (r *Resolver) AnnularAreaAt(depth float64) (float64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	c, err := r.profile.IntervalAt(depth)
	if err != nil {
		return 0, err
	}
	od, err := r.ct.OuterDiameterAt(depth)
	if err != nil {
		return 0, err
	}
	a := annularArea(c.InternalDiameter(), od)
	if a <= 0 {
		return 0, calcerr.Geometry("CT OD %g mm does not fit casing ID %g mm at %g m", od, c.InternalDiameter(), depth)
	}
	return a, nil
}

func (r *Resolver) VelocityAt(depth, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	a, err := r.AnnularAreaAt(depth)
	if err != nil {
		return 0, err
	}
	return rate / a, nil
}

// Segments splits [0, depth] at every casing boundary and every CT joint, so
// each piece pairs the casing and the CT section found at the same depth.
func (r *Resolver) Segments(depth float64) ([]AnnularSegment, error) {
	if err := checkDepth(depth); err != nil {
		return nil, err
	}
	if gap, ok := r.profile.FirstGap(depth); ok {
		return nil, calcerr.NotFound("no casing at %g m", gap)
	}
	if total := r.ct.TotalLength(); depth > total+1e-9 {
		return nil, calcerr.NotFound("string %q (%.2f m) does not reach %g m", r.ct.Name(), total, depth)
	}

	casing := r.profile.SegmentsUpTo(depth)
	if len(casing) == 0 {
		return nil, nil
	}
	// coverage may stop short of depth by less than the gap tolerance
	end := casing[len(casing)-1].Bottom
	cuts := []float64{}
	for _, s := range casing {
		cuts = append(cuts, s.Top, s.Bottom)
	}
	for _, j := range r.ct.Joints() {
		if j < end {
			cuts = append(cuts, j)
		}
	}
	sort.Float64s(cuts)

	var out []AnnularSegment
	ci := 0
	for i := 1; i < len(cuts); i++ {
		top, bottom := cuts[i-1], cuts[i]
		if bottom-top <= 0 {
			continue
		}
		for ci < len(casing) && casing[ci].Bottom <= top {
			ci++
		}
		c := casing[ci].Interval
		sec, _, err := r.ct.SectionAt((top + bottom) / 2)
		if err != nil {
			return nil, err
		}
		a := annularArea(c.InternalDiameter(), sec.OuterDiameter())
		if a <= 0 {
			return nil, calcerr.Geometry("CT OD %g mm does not fit casing ID %g mm between %g and %g m",
				sec.OuterDiameter(), c.InternalDiameter(), top, bottom)
		}
		out = append(out, AnnularSegment{
			TopM:     top,
			BottomM:  bottom,
			CasingID: c.InternalDiameter(),
			PipeOD:   sec.OuterDiameter(),
			AreaM2:   a,
		})
	}
	return out, nil
}

// AverageVelocityToDepth is the length weighted mean annular velocity over [0, depth].
func (r *Resolver) AverageVelocityToDepth(depth, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	segs, err := r.Segments(depth)
	if err != nil {
		return 0, err
	}
	return averageVelocity(segs, rate), nil
}

func averageVelocity(segs []AnnularSegment, rate float64) float64 {
	var vl, l float64
	for _, s := range segs {
		vl += rate / s.AreaM2 * s.Length()
		l += s.Length()
	}
	if l == 0 {
		return 0
	}
	return vl / l
}

func (r *Resolver) VolumesToDepth(depth float64) (Volumes, error) {
	segs, err := r.Segments(depth)
	if err != nil {
		return Volumes{}, err
	}
	return r.volumes(segs, depth), nil
}

func (r *Resolver) volumes(segs []AnnularSegment, depth float64) Volumes {
	var v Volumes
	v.Internal, v.Displacement = r.ct.VolumesToDepth(depth)
	for _, s := range segs {
		v.Hole += geometry.CircleArea(s.CasingID) * s.Length()
		v.Annular += s.AreaM2 * s.Length()
	}
	v.TotalCirculating = v.Internal + v.Annular
	return v
}

// BottomsUpTime is the time in minutes to lift fluid from depth to surface.
func (r *Resolver) BottomsUpTime(depth, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	v, err := r.VolumesToDepth(depth)
	if err != nil {
		return 0, err
	}
	return v.Annular / rate, nil
}

// CirculationTime is the time in minutes to pump down the CT and back up the annulus.
func (r *Resolver) CirculationTime(depth, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	v, err := r.VolumesToDepth(depth)
	if err != nil {
		return 0, err
	}
	return v.TotalCirculating / rate, nil
}
