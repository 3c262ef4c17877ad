package batch

import (
	"errors"
	"math"
	"testing"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/cpmech/gosl/chk"
)

func input() SweepInput {
	return SweepInput{
		Range: Range{FromM: 0, ToM: 1000, StepM: 300, PumpRate: 2, RateUnit: "bbl/min"},
		Sections: []geometry.SectionSpec{
			{LengthM: 1200, ODMM: 50.8, WallMM: 4},
		},
		Casing: []geometry.IntervalSpec{
			{TopM: 0, BottomM: 600, IDMM: 159.4},
			{TopM: 600, BottomM: 1200, IDMM: 108.6, Kind: geometry.KindLiner},
		},
	}
}

func TestSweep01(tst *testing.T) {

	chk.PrintTitle("Sweep01. rows and monotonic volumes")

	res, err := SweepPlain(input())
	if err != nil {
		tst.Fatalf("%v", err)
	}
	var ds []float64
	for _, r := range res.Rows {
		ds = append(ds, r.DepthM)
	}
	chk.Array(tst, "depths", 1e-12, ds, []float64{0, 300, 600, 900, 1000})
	chk.Float64(tst, "rate", 1e-12, res.RateM3Min, 0.317974)
	for i := 1; i < len(res.Rows); i++ {
		if res.Rows[i].AnnularM3 < res.Rows[i-1].AnnularM3 {
			tst.Errorf("annular volume decreased at %g m", res.Rows[i].DepthM)
		}
	}
	last := res.Rows[len(res.Rows)-1]
	chk.Float64(tst, "bottoms up", 1e-12, last.BottomsUpMin, last.AnnularM3/res.RateM3Min)
	if !(last.VelocityMMin > res.Rows[0].VelocityMMin) {
		tst.Errorf("velocity in the liner should exceed the casing velocity")
	}
}

func TestSweep02(tst *testing.T) {

	chk.PrintTitle("Sweep02. bad ranges")

	in := input()
	in.StepM = 0
	if _, err := SweepPlain(in); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("zero step: %v", err)
	}
	in = input()
	in.FromM, in.ToM = 500, 100
	if _, err := SweepPlain(in); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("reversed range: %v", err)
	}
	in = input()
	in.StepM = 0.01
	if _, err := SweepPlain(in); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("row limit: %v", err)
	}
	in = input()
	in.ToM, in.StepM = 1e308, 1e-300
	if _, err := SweepPlain(in); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("overflowing row count: %v", err)
	}
	in = input()
	in.FromM = math.NaN()
	if _, err := SweepPlain(in); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("NaN start: %v", err)
	}
	in = input()
	in.ToM = 1500
	if _, err := SweepPlain(in); !errors.Is(err, calcerr.ErrNotFound) {
		tst.Errorf("past the string: %v", err)
	}
}
