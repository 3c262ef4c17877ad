package pressure

import (
	"errors"
	"testing"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/cpmech/gosl/chk"
)

func TestHydrostatic01(tst *testing.T) {

	chk.PrintTitle("Hydrostatic01. fresh water column")

	res, err := Hydrostatic(1000, 1000)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "Pa", 1e-6, res.Pa, 9806650)
	chk.Float64(tst, "kPa", 1e-9, res.KPa, 9806.65)
	chk.Float64(tst, "MPa", 1e-12, res.MPa, 9.80665)
	chk.Float64(tst, "bar", 1e-9, res.Bar, 98.0665)
	chk.Float64(tst, "psi", 0.05, res.PSI, 1422.3)
	chk.Float64(tst, "gradient", 1e-12, res.GradientKPaM, 9.80665)
}

func TestHydrostatic02(tst *testing.T) {

	chk.PrintTitle("Hydrostatic02. surface and validation")

	res, err := Calculate(Input{DensityKgM3: 1200, TVDM: 0})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "surface pressure", 0, res.Pa, 0)
	chk.Float64(tst, "surface gradient", 0, res.GradientKPaM, 0)

	if _, err := Hydrostatic(0, 100); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("zero density accepted: %v", err)
	}
	if _, err := Hydrostatic(1000, -1); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("negative TVD accepted: %v", err)
	}
}
