package report

import (
	"bytes"
	"testing"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/batch"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/cpmech/gosl/chk"
)

func TestWrite(tst *testing.T) {

	chk.PrintTitle("pdf report")

	sections := []geometry.SectionSpec{{LengthM: 1000, ODMM: 50.8, WallMM: 4}}
	casing := []geometry.IntervalSpec{{TopM: 0, BottomM: 1000, IDMM: 100, Kind: geometry.KindCasing}}
	res, err := resolver.CalculateInput(resolver.Input{
		Params:   resolver.Params{DepthM: 1000, PumpRate: 0.5},
		Sections: sections,
		Casing:   casing,
	})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	sw, err := batch.SweepPlain(batch.SweepInput{
		Range:    batch.Range{FromM: 0, ToM: 1000, StepM: 250, PumpRate: 0.5},
		Sections: sections,
		Casing:   casing,
	})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	density := 1010.0

	var buf bytes.Buffer
	err = Write(&buf, JobReport{
		Job:      "pad 7 cleanout",
		String:   "reel 12",
		Sections: sections,
		Casing:   casing,
		Result:   &res,
		Sweep:    &sw,
		Density:  &density,
		Notes:    "Pumped 2 bottoms up before POOH.",
	})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.String(tst, string(buf.Bytes()[:5]), "%PDF-")

	buf.Reset()
	if err := Write(&buf, JobReport{}); err != nil {
		tst.Fatalf("empty report: %v", err)
	}
	if buf.Len() == 0 {
		tst.Errorf("empty output")
	}
}
