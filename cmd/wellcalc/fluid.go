package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/fluid"
	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/pressure"
	"github.com/spf13/cobra"
)

func newHydrostaticCmd() *cobra.Command {
	var density, tvd float64
	cmd := &cobra.Command{
		Use:     "hydrostatic",
		Short:   "Hydrostatic pressure of a fluid column",
		Example: `  wellcalc hydrostatic --density 1010 --tvd 2800`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pressure.Hydrostatic(density, tvd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			header(out, "HYDROSTATIC PRESSURE")
			w := table(out)
			fmt.Fprintf(w, "  Density:\t%.1f kg/m3\n", density)
			fmt.Fprintf(w, "  TVD:\t%.1f m\n", tvd)
			fmt.Fprintf(w, "  Pressure:\t%.1f kPa\n", res.KPa)
			fmt.Fprintf(w, "  \t%.1f psi\n", res.PSI)
			fmt.Fprintf(w, "  \t%.2f bar\n", res.Bar)
			fmt.Fprintf(w, "  Gradient:\t%.3f kPa/m\n", res.GradientKPaM)
			return w.Flush()
		},
	}
	cmd.Flags().Float64VarP(&density, "density", "d", 0, "Fluid density (kg/m3) [required]")
	cmd.Flags().Float64VarP(&tvd, "tvd", "t", 0, "True vertical depth (m) [required]")
	cmd.MarkFlagRequired("density")
	cmd.MarkFlagRequired("tvd")
	return cmd
}

// parseAdditive reads name:density:rate, density in kg/m3 and rate in L/m3.
func parseAdditive(s string) (fluid.Additive, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return fluid.Additive{}, fmt.Errorf("additive %q: want name:density:rate", s)
	}
	d, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fluid.Additive{}, fmt.Errorf("additive %q density: %w", s, err)
	}
	r, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return fluid.Additive{}, fmt.Errorf("additive %q rate: %w", s, err)
	}
	return fluid.Additive{Name: parts[0], Density: d, Rate: r}, nil
}

func newBlendCmd() *cobra.Command {
	var base, tvd float64
	var raw []string
	cmd := &cobra.Command{
		Use:   "blend",
		Short: "Density of a base fluid with chemical additives",
		Example: `  # fresh water with 50 L/m3 of 1200 kg/m3 brine
  wellcalc blend --base 1000 -a brine:1200:50

  # also report the column pressure at 2800 m TVD
  wellcalc blend --base 1000 -a brine:1200:50 -a FR:1100:1 --tvd 2800`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := fluid.Input{BaseDensity: base}
			for _, s := range raw {
				a, err := parseAdditive(s)
				if err != nil {
					return err
				}
				in.Additives = append(in.Additives, a)
			}
			res, err := fluid.Calculate(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			header(out, "FLUID BLEND")
			w := table(out)
			fmt.Fprintf(w, "  Base:\t%.1f kg/m3\t%.1f L/m3\n", base, res.BaseFractionL)
			for _, a := range in.Additives {
				fmt.Fprintf(w, "  %s:\t%.1f kg/m3\t%.1f L/m3\n", a.Name, a.Density, a.Rate)
			}
			fmt.Fprintf(w, "  Blend:\t%.1f kg/m3\tSG %.3f\n", res.DensityKgM3, res.SpecificGrav)
			if cmd.Flags().Changed("tvd") {
				p, err := pressure.Hydrostatic(res.DensityKgM3, tvd)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  Hydrostatic at %.0f m:\t%.1f kPa\t%.1f psi\n", tvd, p.KPa, p.PSI)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64VarP(&base, "base", "b", 0, "Base fluid density (kg/m3) [required]")
	cmd.Flags().StringArrayVarP(&raw, "additive", "a", nil, "Additive as name:density_kg_m3:rate_l_m3 (repeatable)")
	cmd.Flags().Float64Var(&tvd, "tvd", 0, "Also report hydrostatic pressure at this TVD (m)")
	cmd.MarkFlagRequired("base")
	return cmd
}
