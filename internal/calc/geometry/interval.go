package geometry

import (
	"math"
	"strings"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

type Kind string

const (
	KindCasing Kind = "casing"
	KindLiner  Kind = "liner"
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "casing":
		return KindCasing, nil
	case "liner":
		return KindLiner, nil
	}
	return "", calcerr.Validation("unknown casing kind %q", s)
}

// CasingInterval is one segment of wellbore with a constant internal diameter.
type CasingInterval struct {
	top    float64
	bottom float64
	id     float64
	kind   Kind
}

type IntervalSpec struct {
	TopM    float64 `json:"top_m"`
	BottomM float64 `json:"bottom_m"`
	IDMM    float64 `json:"id_mm"`
	Kind    Kind    `json:"kind"`
}

func NewCasingInterval(top, bottom, id float64, kind Kind) (CasingInterval, error) {
	if top < 0 || math.IsNaN(top) {
		return CasingInterval{}, calcerr.Validation("top depth must be >= 0, got %g m", top)
	}
	if !(bottom > top) {
		return CasingInterval{}, calcerr.Validation("bottom %g m must be below top %g m", bottom, top)
	}
	if id <= 0 || math.IsNaN(id) {
		return CasingInterval{}, calcerr.Validation("internal diameter must be > 0, got %g mm", id)
	}
	if kind == "" {
		kind = KindCasing
	}
	if kind != KindCasing && kind != KindLiner {
		return CasingInterval{}, calcerr.Validation("unknown casing kind %q", kind)
	}
	return CasingInterval{top: top, bottom: bottom, id: id, kind: kind}, nil
}

func (c CasingInterval) Top() float64              { return c.top }
func (c CasingInterval) Bottom() float64           { return c.bottom }
func (c CasingInterval) InternalDiameter() float64 { return c.id }
func (c CasingInterval) Kind() Kind                { return c.kind }
func (c CasingInterval) Length() float64           { return c.bottom - c.top }

// Area is the open hole cross-section inside the casing in m².
func (c CasingInterval) Area() float64 {
	return CircleArea(c.id)
}

func (c CasingInterval) Contains(depth float64) bool {
	return c.top <= depth && depth <= c.bottom
}

func (c CasingInterval) Spec() IntervalSpec {
	return IntervalSpec{TopM: c.top, BottomM: c.bottom, IDMM: c.id, Kind: c.kind}
}

// Restriction is a point in the well (nipple, valve, profile) with a minimum ID.
type Restriction struct {
	name  string
	depth float64
	id    float64
}

type RestrictionSpec struct {
	Name   string  `json:"name"`
	DepthM float64 `json:"depth_m"`
	IDMM   float64 `json:"id_mm"`
}

func NewRestriction(name string, depth, id float64) (Restriction, error) {
	if depth < 0 || math.IsNaN(depth) {
		return Restriction{}, calcerr.Validation("restriction %q depth must be >= 0, got %g m", name, depth)
	}
	if id <= 0 || math.IsNaN(id) {
		return Restriction{}, calcerr.Validation("restriction %q ID must be > 0, got %g mm", name, id)
	}
	return Restriction{name: name, depth: depth, id: id}, nil
}

func (r Restriction) Name() string              { return r.name }
func (r Restriction) Depth() float64            { return r.depth }
func (r Restriction) InternalDiameter() float64 { return r.id }

func (r Restriction) Spec() RestrictionSpec {
	return RestrictionSpec{Name: r.name, DepthM: r.depth, IDMM: r.id}
}

func BuildRestrictions(specs []RestrictionSpec) ([]Restriction, error) {
	out := make([]Restriction, 0, len(specs))
	for _, s := range specs {
		r, err := NewRestriction(s.Name, s.DepthM, s.IDMM)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
