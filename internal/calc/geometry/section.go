// Package geometry models the coiled tubing string and the wellbore it runs in.
//
// Lengths and depths are in metres, diameters and wall thicknesses in
// millimetres, areas in m² and volumes in m³.
package geometry

import (
	"math"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

// CircleArea returns the area in m² of a circle of diameter d in mm.
func CircleArea(dMM float64) float64 {
	r := dMM / 2000.0
	return math.Pi * r * r
}

// PipeSection is one constant-geometry length of coiled tubing.
type PipeSection struct {
	length float64
	od     float64
	wall   float64
}

// SectionSpec is the plain form of a PipeSection used for transport and storage.
type SectionSpec struct {
	LengthM float64 `json:"length_m"`
	ODMM    float64 `json:"od_mm"`
	WallMM  float64 `json:"wall_mm"`
}

func NewPipeSection(length, od, wall float64) (PipeSection, error) {
	if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return PipeSection{}, calcerr.Validation("section length must be > 0, got %g m", length)
	}
	if od <= 0 || math.IsNaN(od) {
		return PipeSection{}, calcerr.Validation("outer diameter must be > 0, got %g mm", od)
	}
	if wall < 0 || math.IsNaN(wall) {
		return PipeSection{}, calcerr.Validation("wall thickness must be >= 0, got %g mm", wall)
	}
	if 2*wall >= od {
		return PipeSection{}, calcerr.Validation("wall %g mm leaves no bore in %g mm OD", wall, od)
	}
	return PipeSection{length: length, od: od, wall: wall}, nil
}

func (s PipeSection) Length() float64        { return s.length }
func (s PipeSection) OuterDiameter() float64 { return s.od }
func (s PipeSection) WallThickness() float64 { return s.wall }

func (s PipeSection) InnerDiameter() float64 {
	return s.od - 2*s.wall
}

// InternalArea is the bore cross-section in m².
func (s PipeSection) InternalArea() float64 {
	return CircleArea(s.InnerDiameter())
}

// OuterArea is the steel plus bore cross-section in m², i.e. what the pipe displaces.
func (s PipeSection) OuterArea() float64 {
	return CircleArea(s.od)
}

func (s PipeSection) Spec() SectionSpec {
	return SectionSpec{LengthM: s.length, ODMM: s.od, WallMM: s.wall}
}

// withLength returns a copy shortened to l; l is always within (0, s.length).
func (s PipeSection) withLength(l float64) PipeSection {
	s.length = l
	return s
}
