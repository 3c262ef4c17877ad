package main

import (
	"fmt"
	"os"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/batch"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/importer"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/recommend"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/report"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/resolver"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/job"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newVolumesCmd() *cobra.Command {
	var path, name, unit, velUnit string
	var depth, rate float64
	cmd := &cobra.Command{
		Use:     "volumes",
		Short:   "Volumes, annular velocity and circulation times at a depth",
		Example: `  wellcalc volumes -j pad7.json --depth 2500 --rate 500 --unit L/min`,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := loadJob(path, name)
			if err != nil {
				return err
			}
			res, err := j.Calculate(resolver.Params{DepthM: depth, PumpRate: rate, RateUnit: unit, VelocityUnit: velUnit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			header(out, fmt.Sprintf("VOLUMES AT %.1f m, %.3f m3/min", res.DepthM, res.RateM3Min))
			w := table(out)
			fmt.Fprintf(w, "  Annular velocity:\t%.2f %s\n", res.Velocity, res.VelocityUnit)
			fmt.Fprintf(w, "  Average to depth:\t%.2f %s\n", res.AverageVelocity, res.VelocityUnit)
			fmt.Fprintf(w, "  CT internal:\t%.3f m3\n", res.Volumes.Internal)
			fmt.Fprintf(w, "  Annulus:\t%.3f m3\n", res.Volumes.Annular)
			fmt.Fprintf(w, "  Displacement:\t%.3f m3\n", res.Volumes.Displacement)
			fmt.Fprintf(w, "  Open hole:\t%.3f m3\n", res.Volumes.Hole)
			fmt.Fprintf(w, "  Bottoms up:\t%.1f min\n", res.BottomsUpMin)
			fmt.Fprintf(w, "  Full circulation:\t%.1f min\n", res.CirculationMin)
			if err := w.Flush(); err != nil {
				return err
			}

			header(out, "ANNULAR SEGMENTS")
			w = table(out)
			fmt.Fprintln(w, "  Top m\tBottom m\tCasing ID mm\tCT OD mm\tArea m2")
			for _, s := range res.Segments {
				fmt.Fprintf(w, "  %.1f\t%.1f\t%.2f\t%.2f\t%.5f\n", s.TopM, s.BottomM, s.CasingID, s.PipeOD, s.AreaM2)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(res.Clearance) > 0 {
				header(out, "RESTRICTIONS")
				w = table(out)
				for _, c := range res.Clearance {
					status := "PASS"
					switch {
					case !c.Reached:
						status = "not reached"
					case !c.Pass:
						status = "FAIL"
					}
					fmt.Fprintf(w, "  %s\t%.1f m\t%.2f mm\t%s\n", c.Name, c.DepthM, c.IDMM, status)
				}
				return w.Flush()
			}
			return nil
		},
	}
	jobFlags(cmd, &path, &name)
	cmd.Flags().Float64VarP(&depth, "depth", "d", 0, "Depth (m) [required]")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 0, "Pump rate [required]")
	cmd.Flags().StringVarP(&unit, "unit", "u", "m3/min", "Rate unit: m3/min, L/min or bbl/min")
	cmd.Flags().StringVar(&velUnit, "velocity-unit", "m/min", "Velocity unit: m/min, ft/min or m/s")
	cmd.MarkFlagRequired("depth")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var path, name, unit string
	var rg batch.Range
	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Tabulate velocity and volumes over a depth range",
		Example: `  wellcalc sweep -j pad7.json --to 3000 --step 250 --rate 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := loadJob(path, name)
			if err != nil {
				return err
			}
			rg.RateUnit = unit
			res, err := j.Sweep(rg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			header(out, fmt.Sprintf("DEPTH SWEEP AT %.3f m3/min", res.RateM3Min))
			w := table(out)
			fmt.Fprintln(w, "  Depth m\tVel m/min\tAvg m/min\tCT m3\tAnnulus m3\tBU min")
			for _, r := range res.Rows {
				fmt.Fprintf(w, "  %.1f\t%.1f\t%.1f\t%.3f\t%.3f\t%.1f\n",
					r.DepthM, r.VelocityMMin, r.AverageVelocity, r.InternalM3, r.AnnularM3, r.BottomsUpMin)
			}
			return w.Flush()
		},
	}
	jobFlags(cmd, &path, &name)
	cmd.Flags().Float64Var(&rg.FromM, "from", 0, "First depth (m)")
	cmd.Flags().Float64Var(&rg.ToM, "to", 0, "Last depth (m) [required]")
	cmd.Flags().Float64Var(&rg.StepM, "step", 100, "Depth step (m)")
	cmd.Flags().Float64VarP(&rg.PumpRate, "rate", "r", 0, "Pump rate [required]")
	cmd.Flags().StringVarP(&unit, "unit", "u", "m3/min", "Rate unit: m3/min, L/min or bbl/min")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	var path, name string
	var depth, target float64
	cmd := &cobra.Command{
		Use:     "recommend",
		Short:   "Minimum pump rate for a target annular velocity",
		Example: `  wellcalc recommend -j pad7.json --depth 3000 --target 35`,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := loadJob(path, name)
			if err != nil {
				return err
			}
			ct, err := j.ActiveString()
			if err != nil {
				return err
			}
			res, err := recommend.MinimumRate(ct, j.Well.Profile, depth, target)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			header(out, "MINIMUM PUMP RATE")
			w := table(out)
			fmt.Fprintf(w, "  Required:\t%.3f m3/min\t%.0f L/min\t%.2f bbl/min\n", res.RequiredM3Min, res.RequiredLMin, res.RequiredBblMin)
			fmt.Fprintf(w, "  Governing annulus:\t%.1f - %.1f m\t%.5f m2\n", res.GoverningTopM, res.GoverningBotM, res.GoverningArea)
			return w.Flush()
		},
	}
	jobFlags(cmd, &path, &name)
	cmd.Flags().Float64VarP(&depth, "depth", "d", 0, "Depth (m) [required]")
	cmd.Flags().Float64VarP(&target, "target", "t", recommend.DefaultTargetMMin, "Target annular velocity (m/min)")
	cmd.MarkFlagRequired("depth")
	return cmd
}

func newReportCmd() *cobra.Command {
	var path, name, unit, outPath string
	var depth, rate, step float64
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Write a PDF job report",
		Example: `  wellcalc report -j pad7.json --depth 3000 --rate 0.5 --step 500 -o pad7.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := loadJob(path, name)
			if err != nil {
				return err
			}
			rep, err := jobReport(j, depth, rate, step, unit)
			if err != nil {
				return err
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := report.Write(f, rep); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.WithField("file", outPath).Info("report written")
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}
	jobFlags(cmd, &path, &name)
	cmd.Flags().Float64VarP(&depth, "depth", "d", 0, "Depth (m) [required]")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 0, "Pump rate [required]")
	cmd.Flags().Float64Var(&step, "step", 0, "Add a depth sweep with this step (m)")
	cmd.Flags().StringVarP(&unit, "unit", "u", "m3/min", "Rate unit: m3/min, L/min or bbl/min")
	cmd.Flags().StringVarP(&outPath, "out", "o", "report.pdf", "Output PDF file")
	cmd.MarkFlagRequired("depth")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func jobReport(j *job.Job, depth, rate, step float64, unit string) (report.JobReport, error) {
	ct, err := j.ActiveString()
	if err != nil {
		return report.JobReport{}, err
	}
	rep := report.JobReport{
		Job:      j.Meta.Name,
		String:   ct.Name(),
		Sections: ct.Specs(),
		Casing:   j.Well.Profile.Specs(),
		Notes:    j.Well.Schematic,
	}
	res, err := j.Calculate(resolver.Params{DepthM: depth, PumpRate: rate, RateUnit: unit})
	if err != nil {
		return rep, err
	}
	rep.Result = &res
	if step > 0 {
		sw, err := j.Sweep(batch.Range{ToM: depth, StepM: step, PumpRate: rate, RateUnit: unit})
		if err != nil {
			return rep, err
		}
		rep.Sweep = &sw
	}
	if d, err := j.BlendedDensity(); err == nil {
		rep.Density = &d
		if p, err := j.Hydrostatic(); err == nil {
			rep.Pressure = &p
		}
	}
	return rep, nil
}

func newImportCmd() *cobra.Command {
	var xlsx, outPath, jobName, stringName string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a job file from a geometry workbook",
		Long: `Read the CT, Casing and Restrictions sheets of an xlsx workbook and write
a job file the other commands (and PUT /api/user/jobs/{id}) accept.
Pass --template to write a blank workbook instead.`,
		Example: `  wellcalc import --xlsx well.xlsx --name "pad 7" --string "reel 12" -o pad7.json
  wellcalc import --template -o well.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template, _ := cmd.Flags().GetBool("template"); template {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				if err := importer.Write(f, importer.Workbook{}); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			}
			if xlsx == "" {
				return fmt.Errorf("--xlsx is required unless --template is set")
			}
			in, err := os.Open(xlsx)
			if err != nil {
				return err
			}
			defer in.Close()
			wb, err := importer.Read(in)
			if err != nil {
				return err
			}
			j := job.New(jobName)
			if err := j.PutString(stringName, wb.Sections); err != nil {
				return err
			}
			if err := j.SetGeometry(wb.Casing, wb.Restrictions); err != nil {
				return err
			}
			data, err := j.MarshalJSON()
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s written to %s (%d sections, %d casing intervals)\n",
				j.ID, outPath, len(wb.Sections), len(wb.Casing))
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Geometry workbook to read")
	cmd.Flags().StringVar(&jobName, "name", "imported job", "Job name")
	cmd.Flags().StringVar(&stringName, "string", "imported", "CT string name")
	cmd.Flags().StringVarP(&outPath, "out", "o", "job.json", "Output file")
	cmd.Flags().Bool("template", false, "Write a blank workbook to --out")
	return cmd
}
