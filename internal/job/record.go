package job

import (
	"time"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/fluid"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
)

// Record is the persisted form of a job: plain data only, no invariants.
type Record struct {
	ID       string      `json:"id,omitempty"`
	Meta     Meta        `json:"meta"`
	CT       CTRecord    `json:"ct"`
	Well     WellRecord  `json:"well"`
	Fluids   FluidRecord `json:"fluids"`
	Settings Settings    `json:"settings"`
}

type Meta struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
}

type CTRecord struct {
	Strings map[string][]geometry.SectionSpec `json:"strings"`
	Active  string                            `json:"active,omitempty"`
}

type WellRecord struct {
	TVD          *float64                   `json:"tvd"`
	KOP          *float64                   `json:"kop"`
	TD           *float64                   `json:"td"`
	Casing       []geometry.IntervalSpec    `json:"casing"`
	Restrictions []geometry.RestrictionSpec `json:"restrictions"`
	Schematic    string                     `json:"schematic,omitempty"`
}

type FluidRecord struct {
	Base      string           `json:"base"`
	Density   *float64         `json:"density"`
	Chemicals []fluid.Additive `json:"chemicals"`
}

type Settings struct {
	Units     string `json:"units"`
	FlowUnit  string `json:"flow_unit"`
	ForceUnit string `json:"force_unit"`
	Theme     string `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		Units:     "metric",
		FlowUnit:  "m/min",
		ForceUnit: "daN",
		Theme:     "dark",
	}
}
