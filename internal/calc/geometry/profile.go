package geometry

import (
	"math"
	"sort"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

// CasingProfile is the wellbore internal diameter as a function of depth.
// Intervals are kept sorted by top depth. Overlaps are allowed (a liner lapped
// inside casing); where intervals overlap the smallest internal diameter wins.
type CasingProfile struct {
	intervals []CasingInterval
}

// Segment is an interval clipped to a depth range.
type Segment struct {
	Interval CasingInterval
	Top      float64
	Bottom   float64
}

func (s Segment) Length() float64 { return s.Bottom - s.Top }

func NewCasingProfile() *CasingProfile {
	return &CasingProfile{}
}

func BuildProfile(specs []IntervalSpec) (*CasingProfile, error) {
	p := NewCasingProfile()
	for i, sp := range specs {
		if err := p.AddInterval(sp.TopM, sp.BottomM, sp.IDMM, sp.Kind); err != nil {
			return nil, calcerr.Validation("casing interval %d: %v", i, err)
		}
	}
	return p, nil
}

func (p *CasingProfile) AddInterval(top, bottom, id float64, kind Kind) error {
	c, err := NewCasingInterval(top, bottom, id, kind)
	if err != nil {
		return err
	}
	i := sort.Search(len(p.intervals), func(i int) bool { return p.intervals[i].top > top })
	p.intervals = append(p.intervals, CasingInterval{})
	copy(p.intervals[i+1:], p.intervals[i:])
	p.intervals[i] = c
	return nil
}

func (p *CasingProfile) RemoveInterval(i int) error {
	if i < 0 || i >= len(p.intervals) {
		return calcerr.NotFound("no casing interval %d", i)
	}
	p.intervals = append(p.intervals[:i], p.intervals[i+1:]...)
	return nil
}

func (p *CasingProfile) Len() int { return len(p.intervals) }

func (p *CasingProfile) Intervals() []CasingInterval {
	out := make([]CasingInterval, len(p.intervals))
	copy(out, p.intervals)
	return out
}

func (p *CasingProfile) Specs() []IntervalSpec {
	out := make([]IntervalSpec, 0, len(p.intervals))
	for _, c := range p.intervals {
		out = append(out, c.Spec())
	}
	return out
}

// IntervalAt returns the interval governing depth.
func (p *CasingProfile) IntervalAt(depth float64) (CasingInterval, error) {
	found := -1
	for i, c := range p.intervals {
		if !c.Contains(depth) {
			continue
		}
		if found < 0 || c.id < p.intervals[found].id {
			found = i
		}
	}
	if found < 0 {
		return CasingInterval{}, calcerr.NotFound("no casing at %g m", depth)
	}
	return p.intervals[found], nil
}

// SegmentsUpTo returns the non-overlapping pieces of the profile within
// [0, depth], shallowest first. Gaps in the profile are left out.
func (p *CasingProfile) SegmentsUpTo(depth float64) []Segment {
	if depth <= 0 || len(p.intervals) == 0 {
		return nil
	}
	cuts := []float64{0, depth}
	for _, c := range p.intervals {
		if c.top < depth {
			cuts = append(cuts, c.top, math.Min(c.bottom, depth))
		}
	}
	sort.Float64s(cuts)

	var out []Segment
	for i := 1; i < len(cuts); i++ {
		top, bottom := cuts[i-1], cuts[i]
		if bottom-top <= 0 {
			continue
		}
		c, err := p.IntervalAt((top + bottom) / 2)
		if err != nil {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Interval == c && out[n-1].Bottom == top {
			out[n-1].Bottom = bottom
			continue
		}
		out = append(out, Segment{Interval: c, Top: top, Bottom: bottom})
	}
	return out
}

// FirstGap returns the shallowest depth in [0, depth] not covered by any
// interval, and false when the range is fully covered.
func (p *CasingProfile) FirstGap(depth float64) (float64, bool) {
	covered := 0.0
	for _, s := range p.SegmentsUpTo(depth) {
		if s.Top > covered+lengthTol {
			return covered, true
		}
		covered = s.Bottom
	}
	if covered < depth-lengthTol {
		return covered, true
	}
	return 0, false
}
