package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/qgda/qgda/internal/dataset"
	"github.com/qgda/qgda/internal/models"
	"github.com/qgda/qgda/internal/series"
)

// columnStats summarises one column of a samples array.
type columnStats struct {
	Column     int           `json:"column"`
	Mean       models.Number `json:"mean"`
	Conf       models.Number `json:"conf"`
	Display    string        `json:"display"`
	CorrLength models.Number `json:"corr_length"`
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print mean, confidence and correlation length per column",
		Long: `Treats each column of a 2-D array (time along the rows) as a series and
prints its mean with the serial-correlation corrected confidence, and its
estimated correlation length in samples.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			run, _ := cmd.Flags().GetInt("run")
			in := stringFlag(cmd, "input", cfg.Dataset.OutputPath(run))
			member := stringFlag(cmd, "member", cfg.Dataset.Member)
			column, _ := cmd.Flags().GetInt("column")
			jsonOut, _ := cmd.Flags().GetBool("json")

			x, err := dataset.Load(in, member)
			if err != nil {
				return err
			}
			rows, cols := x.Dims()
			logger.Debug("Loaded series", "path", in, "length", rows, "columns", cols)

			opts := series.PrintOptions{
				SigFig:           cfg.Stats.SigFig,
				ZeroConfDecimals: cfg.Stats.ZeroConfDecimals,
			}
			stats, err := computeStats(x, column, opts)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().String("input", "", "Input .npy or .npz (default from dataset.output)")
	cmd.Flags().String("member", dataset.DefaultMember, "Member of the .npz archive")
	cmd.Flags().Int("column", -1, "Only this column (default all)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func computeStats(x mat.Matrix, column int, opts series.PrintOptions) ([]columnStats, error) {
	rows, cols := x.Dims()
	first, last := 0, cols
	if column >= 0 {
		if column >= cols {
			return nil, fmt.Errorf("column %d out of range, array has %d columns", column, cols)
		}
		first, last = column, column+1
	}

	out := make([]columnStats, 0, last-first)
	col := make([]float64, rows)
	for j := first; j < last; j++ {
		mat.Col(col, j, x)
		uq := series.MeanWithConf(col)
		cl, err := series.EstimateCorrLength(col)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		out = append(out, columnStats{
			Column:     j,
			Mean:       models.Number(uq.Val),
			Conf:       models.Number(uq.Conf),
			Display:    uq.Display(opts),
			CorrLength: models.Number(cl),
		})
	}
	return out, nil
}

func printStats(w io.Writer, stats []columnStats) {
	fmt.Fprintf(w, "%-8s %-28s %s\n", "column", "mean", "corr_length")
	for _, s := range stats {
		fmt.Fprintf(w, "%-8d %-28s %.3g\n", s.Column, s.Display, float64(s.CorrLength))
	}
}
