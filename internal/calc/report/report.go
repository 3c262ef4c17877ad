package report

import (
	"fmt"
	"io"
	"time"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/batch"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/pressure"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/phpdave11/gofpdf"
)

// JobReport is everything a field report prints. Nil parts are skipped.
type JobReport struct {
	Title    string
	Job      string
	Author   string
	String   string
	Date     time.Time
	Sections []geometry.SectionSpec
	Casing   []geometry.IntervalSpec
	Result   *resolver.Result
	Sweep    *batch.SweepResult
	Density  *float64
	Pressure *pressure.Result
	Notes    string
}

type table struct {
	pdf    *gofpdf.Fpdf
	widths []float64
}

func (t table) row(bold bool, cells ...string) {
	style := ""
	if bold {
		style = "B"
	}
	t.pdf.SetFont("Helvetica", style, 9)
	for i, c := range cells {
		t.pdf.CellFormat(t.widths[i], 6, c, "1", 0, "R", false, 0, "")
	}
	t.pdf.Ln(-1)
}

func heading(pdf *gofpdf.Fpdf, s string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, s)
	pdf.Ln(8)
}

func line(pdf *gofpdf.Fpdf, format string, args ...any) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf(format, args...))
	pdf.Ln(6)
}

func Write(w io.Writer, rep JobReport) error {
	if rep.Title == "" {
		rep.Title = "Well Servicing Report"
	}
	if rep.Date.IsZero() {
		rep.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, rep.Title)
	pdf.Ln(12)
	line(pdf, "Job: %s", rep.Job)
	line(pdf, "Author: %s", rep.Author)
	line(pdf, "Date: %s", rep.Date.Format("2006-01-02"))

	if len(rep.Sections) > 0 {
		heading(pdf, fmt.Sprintf("CT string %s", rep.String))
		t := table{pdf: pdf, widths: []float64{20, 40, 40, 40, 40}}
		t.row(true, "#", "Length m", "OD mm", "Wall mm", "ID mm")
		for i, s := range rep.Sections {
			t.row(false, fmt.Sprint(i+1), fmt.Sprintf("%.1f", s.LengthM), fmt.Sprintf("%.2f", s.ODMM),
				fmt.Sprintf("%.2f", s.WallMM), fmt.Sprintf("%.2f", s.ODMM-2*s.WallMM))
		}
	}

	if len(rep.Casing) > 0 {
		heading(pdf, "Casing profile")
		t := table{pdf: pdf, widths: []float64{40, 40, 40, 40}}
		t.row(true, "Kind", "Top m", "Bottom m", "ID mm")
		for _, c := range rep.Casing {
			t.row(false, string(c.Kind), fmt.Sprintf("%.1f", c.TopM), fmt.Sprintf("%.1f", c.BottomM), fmt.Sprintf("%.2f", c.IDMM))
		}
	}

	if res := rep.Result; res != nil {
		heading(pdf, fmt.Sprintf("Results at %.1f m, %.3f m3/min", res.DepthM, res.RateM3Min))
		line(pdf, "Annular velocity: %.2f %s (average %.2f)", res.Velocity, res.VelocityUnit, res.AverageVelocity)
		line(pdf, "CT internal volume: %.3f m3", res.Volumes.Internal)
		line(pdf, "Annular volume: %.3f m3", res.Volumes.Annular)
		line(pdf, "Displacement: %.3f m3, open hole: %.3f m3", res.Volumes.Displacement, res.Volumes.Hole)
		line(pdf, "Bottoms up: %.1f min, full circulation: %.1f min", res.BottomsUpMin, res.CirculationMin)
		for _, c := range res.Clearance {
			status := "PASS"
			if !c.Pass {
				status = "FAIL"
			}
			line(pdf, "Restriction %s at %.1f m (%.2f mm): %s", c.Name, c.DepthM, c.IDMM, status)
		}
	}

	if rep.Density != nil {
		heading(pdf, "Fluid")
		line(pdf, "Blended density: %.1f kg/m3", *rep.Density)
		if p := rep.Pressure; p != nil {
			line(pdf, "Hydrostatic: %.1f kPa, %.1f psi, %.2f bar (%.3f kPa/m)", p.KPa, p.PSI, p.Bar, p.GradientKPaM)
		}
	}

	if sw := rep.Sweep; sw != nil && len(sw.Rows) > 0 {
		heading(pdf, "Depth sweep")
		t := table{pdf: pdf, widths: []float64{30, 32, 32, 32, 32, 32}}
		t.row(true, "Depth m", "Vel m/min", "Avg m/min", "CT m3", "Annulus m3", "BU min")
		for _, r := range sw.Rows {
			t.row(false, fmt.Sprintf("%.0f", r.DepthM), fmt.Sprintf("%.1f", r.VelocityMMin),
				fmt.Sprintf("%.1f", r.AverageVelocity), fmt.Sprintf("%.3f", r.InternalM3),
				fmt.Sprintf("%.3f", r.AnnularM3), fmt.Sprintf("%.1f", r.BottomsUpMin))
		}
	}

	if rep.Notes != "" {
		heading(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, rep.Notes, "", "L", false)
	}
	return pdf.Output(w)
}
