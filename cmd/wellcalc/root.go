package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/job"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const rule = "───────────────────────────────────────────────────────────────"

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "wellcalc",
		Short: "Coiled tubing and well servicing calculations",
		Long: `wellcalc runs the well servicing calculations from the command line.

Geometry-based commands read a saved job file (the JSON the API returns for
GET /api/user/jobs/{id}) and use its active CT string unless --string is given.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		newHydrostaticCmd(),
		newBlendCmd(),
		newVolumesCmd(),
		newSweepCmd(),
		newRecommendCmd(),
		newReportCmd(),
		newImportCmd(),
	)
	return root
}

func loadJob(path, name string) (*job.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	j, err := job.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if name != "" {
		if err := j.SetActive(name); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{"job": j.Meta.Name, "strings": len(j.Strings())}).Debug("job loaded")
	return j, nil
}

// jobFlags adds the --job and --string flags shared by geometry commands.
func jobFlags(cmd *cobra.Command, path, name *string) {
	cmd.Flags().StringVarP(path, "job", "j", "", "Job file (JSON) [required]")
	cmd.Flags().StringVarP(name, "string", "s", "", "CT string name (default: active string)")
	cmd.MarkFlagRequired("job")
}

func header(out io.Writer, title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}
