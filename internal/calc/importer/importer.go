// Package importer reads and writes well geometry as an xlsx workbook with a
// "CT" sheet (length_m, od_mm, wall_mm), a "Casing" sheet
// (top_m, bottom_m, id_mm, kind) and an optional "Restrictions" sheet
// (name, depth_m, id_mm). The first row of each sheet is a header.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/geometry"
	"github.com/xuri/excelize/v2"
)

const (
	SheetCT           = "CT"
	SheetCasing       = "Casing"
	SheetRestrictions = "Restrictions"
)

var headers = map[string][]string{
	SheetCT:           {"length_m", "od_mm", "wall_mm"},
	SheetCasing:       {"top_m", "bottom_m", "id_mm", "kind"},
	SheetRestrictions: {"name", "depth_m", "id_mm"},
}

type Workbook struct {
	Sections     []geometry.SectionSpec     `json:"sections"`
	Casing       []geometry.IntervalSpec    `json:"casing"`
	Restrictions []geometry.RestrictionSpec `json:"restrictions"`
}

func Read(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, calcerr.Validation("invalid workbook: %v", err)
	}
	defer f.Close()

	var wb Workbook
	rows, err := sheetRows(f, SheetCT, true)
	if err != nil {
		return Workbook{}, err
	}
	for i, row := range rows {
		v, err := floats(SheetCT, i+2, row, 3)
		if err != nil {
			return Workbook{}, err
		}
		wb.Sections = append(wb.Sections, geometry.SectionSpec{LengthM: v[0], ODMM: v[1], WallMM: v[2]})
	}

	rows, err = sheetRows(f, SheetCasing, true)
	if err != nil {
		return Workbook{}, err
	}
	for i, row := range rows {
		v, err := floats(SheetCasing, i+2, row, 3)
		if err != nil {
			return Workbook{}, err
		}
		kind := geometry.KindCasing
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			if kind, err = geometry.ParseKind(row[3]); err != nil {
				return Workbook{}, calcerr.Validation("%s row %d: %v", SheetCasing, i+2, err)
			}
		}
		wb.Casing = append(wb.Casing, geometry.IntervalSpec{TopM: v[0], BottomM: v[1], IDMM: v[2], Kind: kind})
	}

	rows, err = sheetRows(f, SheetRestrictions, false)
	if err != nil {
		return Workbook{}, err
	}
	for i, row := range rows {
		if len(row) < 3 {
			return Workbook{}, calcerr.Validation("%s row %d: expected 3 columns", SheetRestrictions, i+2)
		}
		v, err := floats(SheetRestrictions, i+2, row[1:], 2)
		if err != nil {
			return Workbook{}, err
		}
		wb.Restrictions = append(wb.Restrictions, geometry.RestrictionSpec{
			Name:   strings.TrimSpace(row[0]),
			DepthM: v[0],
			IDMM:   v[1],
		})
	}
	return wb, nil
}

// sheetRows returns the data rows of a sheet with blank rows dropped.
func sheetRows(f *excelize.File, sheet string, required bool) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		if required {
			return nil, calcerr.Validation("sheet %q missing", sheet)
		}
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, calcerr.Validation("sheet %q: %v", sheet, err)
	}
	if len(rows) < 2 {
		if required {
			return nil, calcerr.Validation("sheet %q has no data rows", sheet)
		}
		return nil, nil
	}
	var out [][]string
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func floats(sheet string, line int, row []string, n int) ([]float64, error) {
	if len(row) < n {
		return nil, calcerr.Validation("%s row %d: expected %d columns, got %d", sheet, line, n, len(row))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return nil, calcerr.Validation("%s row %d column %d: %q is not a number", sheet, line, i+1, row[i])
		}
		out[i] = v
	}
	return out, nil
}

// Write saves wb in the layout Read expects. An empty Workbook gives a
// blank template.
func Write(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range []string{SheetCT, SheetCasing, SheetRestrictions} {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		h := headers[sheet]
		if err := f.SetSheetRow(sheet, "A1", &h); err != nil {
			return err
		}
	}

	for i, s := range wb.Sections {
		if err := setRow(f, SheetCT, i, []interface{}{s.LengthM, s.ODMM, s.WallMM}); err != nil {
			return err
		}
	}
	for i, c := range wb.Casing {
		if err := setRow(f, SheetCasing, i, []interface{}{c.TopM, c.BottomM, c.IDMM, string(c.Kind)}); err != nil {
			return err
		}
	}
	for i, r := range wb.Restrictions {
		if err := setRow(f, SheetRestrictions, i, []interface{}{r.Name, r.DepthM, r.IDMM}); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, i int, vals []interface{}) error {
	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &vals)
}
