// Package job holds the in-memory job aggregate: the CT strings, the well and
// the fluid for one field job, plus its persisted Record form.
package job

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/batch"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/fluid"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/pressure"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/google/uuid"
)

type Job struct {
	ID       uuid.UUID
	Meta     Meta
	Well     Well
	Fluids   FluidRecord
	Settings Settings

	strings []*geometry.CTString
	active  string
}

type Well struct {
	TVD          *float64
	KOP          *float64
	TD           *float64
	Profile      *geometry.CasingProfile
	Restrictions []geometry.Restriction
	Schematic    string
}

func New(name string) *Job {
	return &Job{
		ID:       uuid.New(),
		Meta:     Meta{Name: name, LastModified: time.Now().UTC()},
		Well:     Well{Profile: geometry.NewCasingProfile()},
		Settings: DefaultSettings(),
	}
}

func (j *Job) Touch() {
	j.Meta.LastModified = time.Now().UTC()
}

// AddString creates an empty string. The first string added becomes active.
func (j *Job) AddString(name string) (*geometry.CTString, error) {
	s, err := geometry.NewCTString(name)
	if err != nil {
		return nil, err
	}
	if _, err := j.Lookup(s.Name()); err == nil {
		return nil, calcerr.Validation("string %q already exists", s.Name())
	}
	j.strings = append(j.strings, s)
	if j.active == "" {
		j.active = s.Name()
	}
	return s, nil
}

// PutString replaces the sections of an existing string, or adds it.
func (j *Job) PutString(name string, specs []geometry.SectionSpec) error {
	s, err := geometry.BuildString(name, specs)
	if err != nil {
		return err
	}
	for i, old := range j.strings {
		if old.Name() == s.Name() {
			j.strings[i] = s
			return nil
		}
	}
	j.strings = append(j.strings, s)
	if j.active == "" {
		j.active = s.Name()
	}
	return nil
}

// SetGeometry swaps the casing program and restrictions. Nothing changes
// when either fails to validate.
func (j *Job) SetGeometry(casing []geometry.IntervalSpec, restrictions []geometry.RestrictionSpec) error {
	profile, err := geometry.BuildProfile(casing)
	if err != nil {
		return err
	}
	rs, err := geometry.BuildRestrictions(restrictions)
	if err != nil {
		return err
	}
	j.Well.Profile = profile
	j.Well.Restrictions = rs
	return nil
}

func (j *Job) Lookup(name string) (*geometry.CTString, error) {
	name = strings.TrimSpace(name)
	for _, s := range j.strings {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, calcerr.NotFound("no CT string %q", name)
}

func (j *Job) Strings() []*geometry.CTString {
	out := make([]*geometry.CTString, len(j.strings))
	copy(out, j.strings)
	return out
}

// RemoveString deletes a string; removing the active one leaves no selection.
func (j *Job) RemoveString(name string) error {
	for i, s := range j.strings {
		if s.Name() == name {
			j.strings = append(j.strings[:i], j.strings[i+1:]...)
			if j.active == name {
				j.active = ""
			}
			return nil
		}
	}
	return calcerr.NotFound("no CT string %q", name)
}

func (j *Job) SetActive(name string) error {
	s, err := j.Lookup(name)
	if err != nil {
		return err
	}
	j.active = s.Name()
	return nil
}

func (j *Job) ActiveString() (*geometry.CTString, error) {
	if j.active == "" {
		return nil, calcerr.NotFound("no active CT string")
	}
	return j.Lookup(j.active)
}

// Resolver pairs the active string with the well's casing profile.
func (j *Job) Resolver() (*resolver.Resolver, error) {
	ct, err := j.ActiveString()
	if err != nil {
		return nil, err
	}
	return resolver.New(ct, j.Well.Profile), nil
}

func (j *Job) Calculate(p resolver.Params) (resolver.Result, error) {
	ct, err := j.ActiveString()
	if err != nil {
		return resolver.Result{}, err
	}
	return resolver.Calculate(ct, j.Well.Profile, j.Well.Restrictions, p)
}

func (j *Job) Sweep(rg batch.Range) (batch.SweepResult, error) {
	ct, err := j.ActiveString()
	if err != nil {
		return batch.SweepResult{}, err
	}
	return batch.Sweep(ct, j.Well.Profile, rg)
}

func (j *Job) BlendedDensity() (float64, error) {
	if j.Fluids.Density == nil {
		return 0, calcerr.NotFound("base fluid density not set")
	}
	return fluid.Blend(*j.Fluids.Density, j.Fluids.Chemicals)
}

// Hydrostatic is the blended fluid column pressure at the well TVD.
func (j *Job) Hydrostatic() (pressure.Result, error) {
	if j.Well.TVD == nil {
		return pressure.Result{}, calcerr.NotFound("well TVD not set")
	}
	d, err := j.BlendedDensity()
	if err != nil {
		return pressure.Result{}, err
	}
	return pressure.Hydrostatic(d, *j.Well.TVD)
}

func checkDepth(name string, v *float64) error {
	if v != nil && (*v < 0 || math.IsNaN(*v)) {
		return calcerr.Validation("%s must be >= 0, got %g m", name, *v)
	}
	return nil
}

// FromRecord rebuilds a job, validating every primitive on the way in.
func FromRecord(rec Record) (*Job, error) {
	j := &Job{Meta: rec.Meta, Settings: rec.Settings, Fluids: rec.Fluids}
	if rec.ID == "" {
		j.ID = uuid.New()
	} else {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, calcerr.Validation("bad job id %q", rec.ID)
		}
		j.ID = id
	}

	names := make([]string, 0, len(rec.CT.Strings))
	for name := range rec.CT.Strings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := geometry.BuildString(name, rec.CT.Strings[name])
		if err != nil {
			return nil, err
		}
		if name != s.Name() {
			return nil, calcerr.Validation("string name %q has surrounding blanks", name)
		}
		j.strings = append(j.strings, s)
	}
	if rec.CT.Active != "" {
		if err := j.SetActive(rec.CT.Active); err != nil {
			return nil, calcerr.Validation("active string: %v", err)
		}
	}

	for _, d := range []struct {
		name string
		v    *float64
	}{{"TVD", rec.Well.TVD}, {"KOP", rec.Well.KOP}, {"TD", rec.Well.TD}} {
		if err := checkDepth(d.name, d.v); err != nil {
			return nil, err
		}
	}
	profile, err := geometry.BuildProfile(rec.Well.Casing)
	if err != nil {
		return nil, err
	}
	restrictions, err := geometry.BuildRestrictions(rec.Well.Restrictions)
	if err != nil {
		return nil, err
	}
	j.Well = Well{
		TVD:          rec.Well.TVD,
		KOP:          rec.Well.KOP,
		TD:           rec.Well.TD,
		Profile:      profile,
		Restrictions: restrictions,
		Schematic:    rec.Well.Schematic,
	}

	if d := rec.Fluids.Density; d != nil && *d <= 0 {
		return nil, calcerr.Validation("base fluid density must be > 0, got %g kg/m3", *d)
	}
	if _, err := fluid.Validate(rec.Fluids.Chemicals); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Job) Record() Record {
	rec := Record{
		ID:       j.ID.String(),
		Meta:     j.Meta,
		CT:       CTRecord{Strings: make(map[string][]geometry.SectionSpec, len(j.strings)), Active: j.active},
		Fluids:   j.Fluids,
		Settings: j.Settings,
		Well: WellRecord{
			TVD:          j.Well.TVD,
			KOP:          j.Well.KOP,
			TD:           j.Well.TD,
			Casing:       j.Well.Profile.Specs(),
			Restrictions: make([]geometry.RestrictionSpec, 0, len(j.Well.Restrictions)),
			Schematic:    j.Well.Schematic,
		},
	}
	for _, s := range j.strings {
		rec.CT.Strings[s.Name()] = s.Specs()
	}
	for _, r := range j.Well.Restrictions {
		rec.Well.Restrictions = append(rec.Well.Restrictions, r.Spec())
	}
	if rec.Fluids.Chemicals == nil {
		rec.Fluids.Chemicals = []fluid.Additive{}
	}
	return rec
}

func (j *Job) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Record())
}

func Decode(data []byte) (*Job, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, calcerr.Validation("bad job record: %v", err)
	}
	return FromRecord(rec)
}
