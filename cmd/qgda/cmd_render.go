package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/qgda/qgda/internal/config"
	"github.com/qgda/qgda/internal/dataset"
	"github.com/qgda/qgda/internal/render"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render side-by-side field frames of two sample arrays",
		Long: `Draws the streamfunction (or, with --q, the potential vorticity) of two
runs next to each other, one PNG per rendered sample, for comparing e.g.
the truth with the subsampled or assimilated run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			leftPath, _ := cmd.Flags().GetString("left")
			rightPath, _ := cmd.Flags().GetString("right")
			member := stringFlag(cmd, "member", cfg.Dataset.Member)

			left, err := dataset.Load(leftPath, member)
			if err != nil {
				return err
			}
			right, err := dataset.Load(rightPath, member)
			if err != nil {
				return err
			}

			opts := renderOptions(cfg.Render)
			opts.Every = intFlag(cmd, "every", opts.Every)
			opts.UseQ, _ = cmd.Flags().GetBool("q")
			dir := stringFlag(cmd, "out", cfg.Render.OutDir)

			titles := [2]string{baseName(leftPath), baseName(rightPath)}
			_, err = render.Frames(dir, left, right, titles, opts, logger)
			return err
		},
	}
	cmd.Flags().String("left", "", "Samples shown on the left")
	cmd.Flags().String("right", "", "Samples shown on the right")
	cmd.Flags().String("member", dataset.DefaultMember, "Member of .npz inputs")
	cmd.Flags().String("out", "", "Frame directory (default from render.out_dir)")
	cmd.Flags().Int("every", 0, "Render every n-th sample (default from render.every)")
	cmd.Flags().Bool("q", false, "Show potential vorticity instead of streamfunction")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")
	return cmd
}

func renderOptions(c config.RenderConfig) render.Options {
	opts := render.DefaultOptions()
	opts.Every = c.Every
	opts.F = c.F
	opts.ClimPsi = [2]float64{c.ClimPsi[0], c.ClimPsi[1]}
	opts.ClimQ = [2]float64{c.ClimQ[0], c.ClimQ[1]}
	opts.Width = vg.Length(c.Width) * vg.Inch
	opts.Height = vg.Length(c.Height) * vg.Inch
	opts.Colors = c.Colors
	return opts
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
