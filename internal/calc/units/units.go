package units

import (
	"strings"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
)

const (
	RateM3PerMin  = "m3/min"
	RateLPerMin   = "L/min"
	RateBblPerMin = "bbl/min"

	VelocityMPerMin  = "m/min"
	VelocityFtPerMin = "ft/min"
	VelocityMPerSec  = "m/s"

	M3PerBbl = 0.158987
	FtPerM   = 1 / 0.3048
)

// RateToM3PerMin converts a pump rate to m³/min. An empty unit means m³/min.
func RateToM3PerMin(v float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "m3/min", "m³/min":
		return v, nil
	case "l/min", "lpm":
		return v * 0.001, nil
	case "bbl/min", "bpm":
		return v * M3PerBbl, nil
	}
	return 0, calcerr.Validation("unknown rate unit %q", unit)
}

// VelocityFromMPerMin converts an annular velocity in m/min to unit.
func VelocityFromMPerMin(v float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "m/min":
		return v, nil
	case "ft/min":
		return v * FtPerM, nil
	case "m/s":
		return v / 60, nil
	}
	return 0, calcerr.Validation("unknown velocity unit %q", unit)
}
