package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/qgda/qgda/internal/archive"
	"github.com/qgda/qgda/internal/compression"
	"github.com/qgda/qgda/internal/dataset"
	"github.com/qgda/qgda/internal/series"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Pack and inspect .qgt statistics archives",
	}
	cmd.AddCommand(newArchiveInspectCmd(), newArchivePackCmd())
	return cmd
}

func newArchiveInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the header and series of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, hdr, err := archive.ReadFile(args[0])
			if err != nil {
				return err
			}
			printHeader(cmd.OutOrStdout(), hdr)
			fmt.Fprint(cmd.OutOrStdout(), fs.String())
			return nil
		},
	}
}

func printHeader(w io.Writer, hdr *archive.Header) {
	fmt.Fprintf(w, "version:     %d\n", hdr.Version)
	fmt.Fprintf(w, "compression: %s\n", hdr.Compression)
	fmt.Fprintf(w, "store_u:     %t\n", hdr.StoreU)
	fmt.Fprintf(w, "store_s:     %t\n", hdr.StoreS)
	for _, b := range hdr.Blocks {
		fmt.Fprintf(w, "block %s: %dx%d, %d bytes\n", b.Tag, b.Rows, b.Cols, b.Size)
	}
}

// seriesFlags names the pack flag of each series.
var seriesFlags = map[series.Tag]string{
	series.Forecast:  "forecast",
	series.Analysis:  "analysis",
	series.Smoothed:  "smoothed",
	series.Universal: "universal",
}

func newArchivePackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack statistic series stored as .npy into an archive",
		Long: `Each input holds one item per row. Forecast and analysis share KObs+1
rows; the universal series, when given, has K+1 rows and is stored in full.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			algo, err := compression.ParseAlgorithm(stringFlag(cmd, "compression", cfg.Archive.Compression))
			if err != nil {
				return err
			}

			inputs := make(map[series.Tag]*mat.Dense)
			for _, tag := range series.Tags {
				path, _ := cmd.Flags().GetString(seriesFlags[tag])
				if path == "" {
					continue
				}
				m, err := dataset.LoadNPY(path)
				if err != nil {
					return err
				}
				inputs[tag] = m
			}

			fs, err := packFAUSt(inputs)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("output")
			if err := archive.WriteFile(out, fs, algo); err != nil {
				return err
			}
			logger.Info("Wrote archive", "path", out, "K", fs.K(), "KObs", fs.KObs(), "compression", algo.String())
			return nil
		},
	}
	for _, tag := range series.Tags {
		cmd.Flags().String(seriesFlags[tag], "", fmt.Sprintf("%s series as .npy", seriesFlags[tag]))
	}
	cmd.Flags().String("output", "", "Output .qgt archive")
	cmd.Flags().String("compression", "", "none or snappy (default from archive.compression)")
	_ = cmd.MarkFlagRequired(seriesFlags[series.Forecast])
	_ = cmd.MarkFlagRequired(seriesFlags[series.Analysis])
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// packFAUSt builds a FAUSt from whole series. Forecast and analysis are
// required; without a universal series K equals KObs and only the latest
// universal item is kept.
func packFAUSt(inputs map[series.Tag]*mat.Dense) (*series.FAUSt, error) {
	f, a := inputs[series.Forecast], inputs[series.Analysis]
	if f == nil || a == nil {
		return nil, fmt.Errorf("forecast and analysis series are required")
	}
	rows, cols := f.Dims()
	if ar, ac := a.Dims(); ar != rows || ac != cols {
		return nil, fmt.Errorf("%w: analysis is %dx%d, forecast %dx%d", series.ErrInvalidShape, ar, ac, rows, cols)
	}

	kObs, k := rows-1, rows-1
	u, storeU := inputs[series.Universal]
	if storeU {
		ur, _ := u.Dims()
		k = ur - 1
	}
	_, storeS := inputs[series.Smoothed]

	fs, err := series.NewFAUSt(k, kObs, []int{cols}, storeU, storeS)
	if err != nil {
		return nil, err
	}
	for _, tag := range series.Tags {
		m, ok := inputs[tag]
		if !ok {
			continue
		}
		if err := fs.Restore(tag, m); err != nil {
			return nil, fmt.Errorf("%s: %w", seriesFlags[tag], err)
		}
	}
	return fs, nil
}
