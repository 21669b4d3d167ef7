package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/qgda/qgda/internal/dataset"
	"github.com/qgda/qgda/internal/decimate"
	"github.com/qgda/qgda/internal/logging"
)

func newSubsampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subsample",
		Short: "Decimate high-resolution samples onto the coarse grid",
		Long: `Reads samples (one flattened grid x grid field per row) from an .npz
member or an .npy file, low-pass filters and decimates every field along
both axes, and writes the flattened result as .npy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			run, _ := cmd.Flags().GetInt("run")

			in := stringFlag(cmd, "input", cfg.Dataset.InputPath(run))
			out := stringFlag(cmd, "output", cfg.Dataset.OutputPath(run))
			opts := dataset.SubsampleOptions{
				Grid:       intFlag(cmd, "grid", cfg.Subsample.Grid),
				Factor:     intFlag(cmd, "factor", cfg.Subsample.Factor),
				FilterType: decimate.FilterType(cfg.Subsample.FilterType),
				Workers:    intFlag(cmd, "workers", cfg.Subsample.Workers),
			}
			member := stringFlag(cmd, "member", cfg.Dataset.Member)

			return runSubsample(cmd.Context(), logger.With("run", run), in, member, out, opts, cfg.Dataset.WriteManifest)
		},
	}
	cmd.Flags().String("input", "", "Input .npz or .npy (default from dataset.input)")
	cmd.Flags().String("member", dataset.DefaultMember, "Member of the .npz archive")
	cmd.Flags().String("output", "", "Output .npy (default from dataset.output)")
	cmd.Flags().Int("grid", 0, "Side of the input grid (default from subsample.grid)")
	cmd.Flags().Int("factor", 0, "Decimation factor (default from subsample.factor)")
	cmd.Flags().Int("workers", 0, "Samples decimated concurrently (default from subsample.workers)")
	return cmd
}

func runSubsample(ctx context.Context, logger *logging.Logger, in, member, out string, opts dataset.SubsampleOptions, manifest bool) error {
	x, err := dataset.Load(in, member)
	if err != nil {
		return err
	}
	rows, cols := x.Dims()
	logger.Info("Loaded samples", "path", in, "samples", rows, "values", cols)

	sub, err := dataset.Subsample(ctx, x, opts)
	if err != nil {
		if errors.Is(err, dataset.ErrDimensionMismatch) {
			logger.Error("Samples do not match the grid", "path", in, "grid", opts.Grid, "error", err)
		}
		return err
	}

	if err := dataset.SaveNPY(out, sub); err != nil {
		return err
	}
	srows, scols := sub.Dims()
	logger.Info("Wrote subsampled samples", "path", out, "samples", srows, "values", scols)

	if !manifest {
		return nil
	}
	m := dataset.NewManifest("subsample", in, out)
	m.InputShape = []int{rows, cols}
	m.OutputShape = []int{srows, scols}
	m.Params["grid"] = strconv.Itoa(opts.Grid)
	m.Params["factor"] = strconv.Itoa(opts.Factor)
	m.Params["ftype"] = string(opts.FilterType)
	if member != "" {
		m.Params["member"] = member
	}
	if err := m.Write(dataset.ManifestPath(out)); err != nil {
		return fmt.Errorf("subsample manifest: %w", err)
	}
	return nil
}

