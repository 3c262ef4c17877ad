package resolver

import (
	"errors"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
)

type ClearanceResult struct {
	Name        string  `json:"name"`
	DepthM      float64 `json:"depth_m"`
	IDMM        float64 `json:"id_mm"`
	PipeODMM    float64 `json:"pipe_od_mm"`
	ClearanceMM float64 `json:"clearance_mm"`
	Reached     bool    `json:"reached"`
	Pass        bool    `json:"pass"`
}

// Clearance checks the CT OD at each restriction depth against the restriction
// ID. Restrictions deeper than the string are reported as not reached.
func (r *Resolver) Clearance(restrictions []geometry.Restriction) ([]ClearanceResult, error) {
	out := make([]ClearanceResult, 0, len(restrictions))
	for _, rs := range restrictions {
		res := ClearanceResult{Name: rs.Name(), DepthM: rs.Depth(), IDMM: rs.InternalDiameter(), Pass: true}
		od, err := r.ct.OuterDiameterAt(rs.Depth())
		switch {
		case errors.Is(err, calcerr.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			res.Reached = true
			res.PipeODMM = od
			res.ClearanceMM = rs.InternalDiameter() - od
			res.Pass = res.ClearanceMM > 0
		}
		out = append(out, res)
	}
	return out, nil
}
