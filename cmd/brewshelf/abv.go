package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brewshelf/brewshelf/internal/abv"
)

func newABVCmd() *cobra.Command {
	var (
		lmeKg        float64
		volumeL      float64
		finalGravity float64
	)

	cmd := &cobra.Command{
		Use:   "abv",
		Short: "Estimate alcohol by volume for an extract brew",
		Long:  "Computes original gravity and ABV from the liquid malt extract weight, brew volume and measured final gravity.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runABV(cmd, lmeKg, volumeL, finalGravity)
		},
	}

	cmd.Flags().Float64Var(&lmeKg, "lme", 0, "liquid malt extract weight in kg")
	cmd.Flags().Float64Var(&volumeL, "volume", 0, "brew volume in litres")
	cmd.Flags().Float64Var(&finalGravity, "fg", 1.010, "measured final gravity")
	cmd.MarkFlagRequired("lme")
	cmd.MarkFlagRequired("volume")
	return cmd
}

func runABV(cmd *cobra.Command, lmeKg, volumeL, finalGravity float64) error {
	if volumeL <= 0 {
		return fmt.Errorf("volume must be positive, got %v", volumeL)
	}
	r := abv.Estimate(lmeKg, volumeL, finalGravity)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Gravity points:   %.1f\n", r.GravityPoints)
	fmt.Fprintf(out, "Original gravity: %.3f\n", r.OriginalGravity)
	fmt.Fprintf(out, "Estimated ABV:    %.1f%%\n", r.ABV)
	return nil
}
