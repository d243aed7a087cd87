package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/levain/internal/companion"
	"github.com/hammamikhairi/levain/internal/recipe"
	"github.com/hammamikhairi/levain/internal/schedule"
)

var (
	calcFlour     int
	calcHydration float64
	calcLoaves    int
	scheduleStart string
)

func init() {
	// calc command
	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Print ingredient weights",
		Long: `Print ingredient weights for the current bake. Flags override the
saved values for this printout only.`,
		Args: cobra.NoArgs,
		RunE: runCalc,
	}
	calcCmd.Flags().IntVar(&calcFlour, "flour", 0, "total flour in grams")
	calcCmd.Flags().Float64Var(&calcHydration, "hydration", 0, "water as a percentage of flour")
	calcCmd.Flags().IntVar(&calcLoaves, "loaves", 0, "number of loaves; rescales the flour unless --flour is set")
	rootCmd.AddCommand(calcCmd)

	// status command
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show steps, the active step and its countdown",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	rootCmd.AddCommand(statusCmd)

	// schedule command
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview when each step happens",
		Args:  cobra.NoArgs,
		RunE:  runSchedule,
	}
	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "start time as HH:MM (default now)")
	rootCmd.AddCommand(scheduleCmd)

	// reset command
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current bake's progress",
		Args:  cobra.NoArgs,
		RunE:  runReset,
	}
	rootCmd.AddCommand(resetCmd)
}

func printLines(lines []string) {
	for _, l := range lines {
		fmt.Println(l)
	}
}

func runCalc(cmd *cobra.Command, _ []string) error {
	return withBakery(func(_ context.Context, b *bakery) error {
		s := b.engine.Snapshot()
		if calcLoaves > 0 {
			if !cmd.Flags().Changed("flour") {
				s.FlourWeight = recipe.RescaleFlour(s.FlourWeight, s.LoafCount, calcLoaves)
			}
			s.LoafCount = calcLoaves
		}
		if cmd.Flags().Changed("flour") {
			if calcFlour < 0 {
				return fmt.Errorf("--flour must not be negative")
			}
			s.FlourWeight = calcFlour
		}
		if cmd.Flags().Changed("hydration") {
			if calcHydration < 0 {
				return fmt.Errorf("--hydration must not be negative")
			}
			s.Hydration = calcHydration
		}
		printLines(companion.CalcLines(s))
		return nil
	})
}

func runStatus(_ *cobra.Command, _ []string) error {
	return withBakery(func(_ context.Context, b *bakery) error {
		printLines(companion.StatusLines(b.engine.Snapshot(), b.engine.Now()))
		return nil
	})
}

func runSchedule(_ *cobra.Command, _ []string) error {
	return withBakery(func(_ context.Context, b *bakery) error {
		start, err := schedule.ParseStart(scheduleStart, b.engine.Now())
		if err != nil {
			return err
		}
		return schedule.Render(os.Stdout, schedule.Build(start, b.engine.Snapshot().Steps))
	})
}

func runReset(_ *cobra.Command, _ []string) error {
	return withBakery(func(ctx context.Context, b *bakery) error {
		b.engine.Reset(ctx)
		fmt.Println("Bake reset. The journal is untouched.")
		return nil
	})
}
