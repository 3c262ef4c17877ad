package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/cpmech/gosl/chk"
)

func mustString(tst *testing.T, specs ...SectionSpec) *CTString {
	s, err := BuildString("test", specs)
	if err != nil {
		tst.Fatalf("build string: %v", err)
	}
	return s
}

func lengths(s *CTString) []float64 {
	var out []float64
	for _, sec := range s.Sections() {
		out = append(out, sec.Length())
	}
	return out
}

func TestPipeSection01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("PipeSection01. derived quantities")

	s, err := NewPipeSection(100, 50.8, 3.96)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "id", 1e-12, s.InnerDiameter(), 42.88)
	chk.Float64(tst, "internal area", 1e-12, s.InternalArea(), math.Pi*0.02144*0.02144)
	chk.Float64(tst, "outer area", 1e-12, s.OuterArea(), math.Pi*0.0254*0.0254)
	if !(s.InternalArea() < s.OuterArea()) {
		tst.Errorf("internal area %g must be below outer area %g", s.InternalArea(), s.OuterArea())
	}

	// solid wall edge: thin but non-zero wall keeps the bore
	thin, err := NewPipeSection(1, 10, 4.999)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	if !(thin.InternalArea() > 0 && thin.InternalArea() < thin.OuterArea()) {
		tst.Errorf("bad areas for thin bore: %g %g", thin.InternalArea(), thin.OuterArea())
	}
}

func TestPipeSection02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("PipeSection02. validation")

	bad := [][3]float64{
		{0, 50.8, 4},
		{-1, 50.8, 4},
		{10, 0, 0},
		{10, 50.8, -1},
		{10, 50.8, 25.4},
		{10, 50.8, 30},
	}
	for _, b := range bad {
		_, err := NewPipeSection(b[0], b[1], b[2])
		if !errors.Is(err, calcerr.ErrValidation) {
			tst.Errorf("%v: expected validation error, got %v", b, err)
		}
	}
}

func TestCasingInterval01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CasingInterval01. validation")

	if _, err := NewCasingInterval(100, 100, 150, KindCasing); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("bottom == top accepted: %v", err)
	}
	if _, err := NewCasingInterval(100, 50, 150, KindCasing); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("bottom < top accepted: %v", err)
	}
	if _, err := NewCasingInterval(0, 50, 0, KindLiner); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("zero id accepted: %v", err)
	}
	c, err := NewCasingInterval(0, 50, 150, "")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.String(tst, string(c.Kind()), string(KindCasing))
	chk.Float64(tst, "length", 1e-15, c.Length(), 50)

	k, err := ParseKind(" Liner ")
	if err != nil || k != KindLiner {
		tst.Errorf("parse liner: %v %v", k, err)
	}
}

func TestCTString01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CTString01. volumes are additive")

	s := mustString(tst,
		SectionSpec{LengthM: 10, ODMM: 50.8, WallMM: 5},
		SectionSpec{LengthM: 20, ODMM: 50.8, WallMM: 4},
	)
	a, _ := NewPipeSection(10, 50.8, 5)
	b, _ := NewPipeSection(20, 50.8, 4)
	chk.Float64(tst, "total length", 1e-15, s.TotalLength(), 30)
	chk.Float64(tst, "internal volume", 1e-9, s.InternalVolume(), a.InternalArea()*10+b.InternalArea()*20)
	chk.Float64(tst, "displacement", 1e-9, s.DisplacementVolume(), a.OuterArea()*10+b.OuterArea()*20)

	in, disp := s.VolumesToDepth(15)
	chk.Float64(tst, "internal to 15", 1e-12, in, a.InternalArea()*10+b.InternalArea()*5)
	chk.Float64(tst, "displacement to 15", 1e-12, disp, a.OuterArea()*10+b.OuterArea()*5)

	in, _ = s.VolumesToDepth(1000)
	chk.Float64(tst, "internal beyond end", 1e-12, in, s.InternalVolume())

	empty, _ := NewCTString("empty")
	chk.Float64(tst, "empty length", 0, empty.TotalLength(), 0)
	chk.Float64(tst, "empty volume", 0, empty.InternalVolume(), 0)
	chk.Float64(tst, "empty displacement", 0, empty.DisplacementVolume(), 0)
}

func TestCTString02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CTString02. section lookup by depth")

	s := mustString(tst,
		SectionSpec{LengthM: 0.1, ODMM: 50.8, WallMM: 4},
		SectionSpec{LengthM: 0.2, ODMM: 44.45, WallMM: 4},
		SectionSpec{LengthM: 0.3, ODMM: 38.1, WallMM: 3},
	)
	var visited []int
	total := s.TotalLength()
	for i := 0; i <= 600; i++ {
		d := total * float64(i) / 600
		_, idx, err := s.SectionAt(d)
		if err != nil {
			tst.Fatalf("depth %g: %v", d, err)
		}
		if n := len(visited); n == 0 || visited[n-1] != idx {
			visited = append(visited, idx)
		}
	}
	chk.Ints(tst, "visit order", visited, []int{0, 1, 2})

	_, idx, _ := s.SectionAt(0.1)
	chk.Ints(tst, "joint goes to upper section", []int{idx}, []int{0})

	od, err := s.OuterDiameterAt(0.25)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "od at 0.25", 0, od, 44.45)

	if _, _, err := s.SectionAt(total + 0.01); !errors.Is(err, calcerr.ErrNotFound) {
		tst.Errorf("expected not found past the end, got %v", err)
	}
	if _, _, err := s.SectionAt(-1); !errors.Is(err, calcerr.ErrNotFound) {
		tst.Errorf("expected not found above surface, got %v", err)
	}
}

func TestCTString03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CTString03. trim from whip end")

	specs := []SectionSpec{
		{LengthM: 5, ODMM: 50.8, WallMM: 4},
		{LengthM: 10, ODMM: 44.45, WallMM: 3},
	}

	s := mustString(tst, specs...)
	if err := s.TrimFromWhipEnd(3); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "trim 3", 1e-12, lengths(s), []float64{2, 10})
	chk.Float64(tst, "od kept", 0, s.Sections()[0].OuterDiameter(), 50.8)

	s = mustString(tst, specs...)
	if err := s.TrimFromWhipEnd(7); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "trim 7", 1e-12, lengths(s), []float64{8})
	chk.Float64(tst, "od of survivor", 0, s.Sections()[0].OuterDiameter(), 44.45)

	s = mustString(tst, specs...)
	if err := s.TrimFromWhipEnd(5); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "trim whole first section", 1e-12, lengths(s), []float64{10})

	s = mustString(tst, specs...)
	for _, amount := range []float64{0, -2, 15, 20} {
		if err := s.TrimFromWhipEnd(amount); !errors.Is(err, calcerr.ErrValidation) {
			tst.Errorf("trim %g: expected validation error, got %v", amount, err)
		}
	}
	chk.Array(tst, "failed trims leave string intact", 0, lengths(s), []float64{5, 10})
}

func TestCTString04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CTString04. insert, remove, idempotent queries")

	s := mustString(tst, SectionSpec{LengthM: 100, ODMM: 50.8, WallMM: 4})
	if err := s.InsertSection(0, 50, 44.45, 3.4); err != nil {
		tst.Fatalf("%v", err)
	}
	if err := s.InsertSection(5, 1, 44.45, 3.4); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("out of range insert accepted: %v", err)
	}
	chk.Array(tst, "after insert", 0, lengths(s), []float64{50, 100})

	v1, v2 := s.InternalVolume(), s.InternalVolume()
	l1, l2 := s.TotalLength(), s.TotalLength()
	chk.Float64(tst, "volume repeat", 0, v1, v2)
	chk.Float64(tst, "length repeat", 0, l1, l2)

	if err := s.RemoveSection(0); err != nil {
		tst.Fatalf("%v", err)
	}
	if err := s.RemoveSection(3); !errors.Is(err, calcerr.ErrNotFound) {
		tst.Errorf("remove missing section: %v", err)
	}
	chk.Array(tst, "after remove", 0, lengths(s), []float64{100})
	chk.Array(tst, "joints", 0, s.Joints(), []float64{100})

	if _, err := BuildString(" ", nil); !errors.Is(err, calcerr.ErrValidation) {
		tst.Errorf("blank name accepted: %v", err)
	}
}

func TestCasingProfile01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CasingProfile01. lookup and segments")

	p, err := BuildProfile([]IntervalSpec{
		{TopM: 1000, BottomM: 2500, IDMM: 108.6, Kind: KindLiner},
		{TopM: 0, BottomM: 1000, IDMM: 159.4, Kind: KindCasing},
	})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "sorted", 0, p.Intervals()[0].Top(), 0)

	c, err := p.IntervalAt(500)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "id at 500", 0, c.InternalDiameter(), 159.4)
	c, _ = p.IntervalAt(1000)
	chk.Float64(tst, "id at shoe", 0, c.InternalDiameter(), 108.6)

	first, _ := p.IntervalAt(1800)
	second, _ := p.IntervalAt(1800)
	if first != second {
		tst.Errorf("IntervalAt not idempotent")
	}

	if _, err := p.IntervalAt(3000); !errors.Is(err, calcerr.ErrNotFound) {
		tst.Errorf("expected not found below the profile, got %v", err)
	}

	segs := p.SegmentsUpTo(1500)
	if len(segs) != 2 {
		tst.Fatalf("expected 2 segments, got %d", len(segs))
	}
	chk.Array(tst, "segment bounds", 0,
		[]float64{segs[0].Top, segs[0].Bottom, segs[1].Top, segs[1].Bottom},
		[]float64{0, 1000, 1000, 1500})

	segs = p.SegmentsUpTo(600)
	if len(segs) != 1 || segs[0].Bottom != 600 {
		tst.Errorf("shallow segments: %+v", segs)
	}
	if segs := p.SegmentsUpTo(0); len(segs) != 0 {
		tst.Errorf("zero depth gives segments: %+v", segs)
	}
}

func TestCasingProfile02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("CasingProfile02. liner lap and gaps")

	p := NewCasingProfile()
	_ = p.AddInterval(0, 2000, 159.4, KindCasing)
	_ = p.AddInterval(1900, 3000, 108.6, KindLiner)
	_ = p.AddInterval(3200, 3500, 76, KindLiner)

	c, _ := p.IntervalAt(1950)
	chk.Float64(tst, "liner governs the lap", 0, c.InternalDiameter(), 108.6)

	segs := p.SegmentsUpTo(3500)
	var bounds []float64
	for _, s := range segs {
		bounds = append(bounds, s.Top, s.Bottom)
	}
	chk.Array(tst, "flattened", 0, bounds, []float64{0, 1900, 1900, 3000, 3200, 3500})

	gap, ok := p.FirstGap(3500)
	if !ok {
		tst.Fatalf("gap not reported")
	}
	chk.Float64(tst, "gap", 0, gap, 3000)
	if _, ok := p.FirstGap(2500); ok {
		tst.Errorf("covered range reported a gap")
	}
	if _, err := p.IntervalAt(3100); !errors.Is(err, calcerr.ErrNotFound) {
		tst.Errorf("gap lookup: %v", err)
	}
}

func verbose() {
	chk.Verbose = true
}
