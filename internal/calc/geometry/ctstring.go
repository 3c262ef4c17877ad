package geometry

import (
	"math"
	"strings"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

// lengthTol absorbs float error when depths are compared against summed lengths.
const lengthTol = 1e-9

// CTString is one physical coiled tubing string. Sections are stored from the
// whip end (index 0) to the core end; depth along the string is measured from
// index 0.
type CTString struct {
	name     string
	sections []PipeSection
}

func NewCTString(name string) (*CTString, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, calcerr.Validation("string name required")
	}
	return &CTString{name: name}, nil
}

// BuildString creates a named string from plain section records.
func BuildString(name string, specs []SectionSpec) (*CTString, error) {
	s, err := NewCTString(name)
	if err != nil {
		return nil, err
	}
	for i, sp := range specs {
		if err := s.AddSection(sp.LengthM, sp.ODMM, sp.WallMM); err != nil {
			return nil, calcerr.Validation("string %q section %d: %v", name, i, err)
		}
	}
	return s, nil
}

func (s *CTString) Name() string { return s.name }
func (s *CTString) Len() int     { return len(s.sections) }

// Sections returns a copy of the sections in whip-to-core order.
func (s *CTString) Sections() []PipeSection {
	out := make([]PipeSection, len(s.sections))
	copy(out, s.sections)
	return out
}

func (s *CTString) Specs() []SectionSpec {
	out := make([]SectionSpec, 0, len(s.sections))
	for _, sec := range s.sections {
		out = append(out, sec.Spec())
	}
	return out
}

// AddSection appends a section at the core end.
func (s *CTString) AddSection(length, od, wall float64) error {
	sec, err := NewPipeSection(length, od, wall)
	if err != nil {
		return err
	}
	s.sections = append(s.sections, sec)
	return nil
}

// InsertSection places a new section at index i, 0 <= i <= Len().
func (s *CTString) InsertSection(i int, length, od, wall float64) error {
	if i < 0 || i > len(s.sections) {
		return calcerr.Validation("insert index %d out of range [0, %d]", i, len(s.sections))
	}
	sec, err := NewPipeSection(length, od, wall)
	if err != nil {
		return err
	}
	s.sections = append(s.sections, PipeSection{})
	copy(s.sections[i+1:], s.sections[i:])
	s.sections[i] = sec
	return nil
}

func (s *CTString) RemoveSection(i int) error {
	if i < 0 || i >= len(s.sections) {
		return calcerr.NotFound("string %q has no section %d", s.name, i)
	}
	s.sections = append(s.sections[:i], s.sections[i+1:]...)
	return nil
}

// TrimFromWhipEnd cuts amount metres off the whip end, shortening or dropping
// sections from index 0 onward. A trim may not consume the whole string.
func (s *CTString) TrimFromWhipEnd(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) {
		return calcerr.Validation("trim amount must be > 0, got %g m", amount)
	}
	total := s.TotalLength()
	if amount >= total-lengthTol {
		return calcerr.Validation("trim of %g m would leave nothing of %g m string %q", amount, total, s.name)
	}
	remaining := amount
	i := 0
	for ; i < len(s.sections) && remaining > lengthTol; i++ {
		l := s.sections[i].length
		if remaining < l-lengthTol {
			s.sections[i] = s.sections[i].withLength(l - remaining)
			remaining = 0
			break
		}
		remaining -= l
	}
	s.sections = append([]PipeSection(nil), s.sections[i:]...)
	return nil
}

func (s *CTString) TotalLength() float64 {
	total := 0.0
	for _, sec := range s.sections {
		total += sec.length
	}
	return total
}

// InternalVolume is the bore volume of the whole string in m³.
func (s *CTString) InternalVolume() float64 {
	v := 0.0
	for _, sec := range s.sections {
		v += sec.InternalArea() * sec.length
	}
	return v
}

// DisplacementVolume is the closed-end volume of the whole string in m³.
func (s *CTString) DisplacementVolume() float64 {
	v := 0.0
	for _, sec := range s.sections {
		v += sec.OuterArea() * sec.length
	}
	return v
}

// SectionAt returns the section occupying depth and its index. A depth that
// falls exactly on a joint resolves to the section above it.
func (s *CTString) SectionAt(depth float64) (PipeSection, int, error) {
	if depth < 0 || math.IsNaN(depth) {
		return PipeSection{}, -1, calcerr.NotFound("string %q: no section at %g m", s.name, depth)
	}
	remaining := depth
	for i, sec := range s.sections {
		if remaining <= sec.length+lengthTol {
			return sec, i, nil
		}
		remaining -= sec.length
	}
	return PipeSection{}, -1, calcerr.NotFound("string %q (%.2f m) does not reach %g m", s.name, s.TotalLength(), depth)
}

func (s *CTString) OuterDiameterAt(depth float64) (float64, error) {
	sec, _, err := s.SectionAt(depth)
	if err != nil {
		return 0, err
	}
	return sec.od, nil
}

// VolumesToDepth returns the bore and displacement volumes of the part of the
// string between 0 and depth. Sections beyond the string end contribute nothing.
func (s *CTString) VolumesToDepth(depth float64) (internal, displacement float64) {
	remaining := depth
	for _, sec := range s.sections {
		if remaining <= 0 {
			break
		}
		l := math.Min(sec.length, remaining)
		internal += sec.InternalArea() * l
		displacement += sec.OuterArea() * l
		remaining -= l
	}
	return internal, displacement
}

// Joints returns the cumulative depth of every section end, last one being TotalLength.
func (s *CTString) Joints() []float64 {
	out := make([]float64, 0, len(s.sections))
	cum := 0.0
	for _, sec := range s.sections {
		cum += sec.length
		out = append(out, cum)
	}
	return out
}
