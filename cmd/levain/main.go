// Levain is a sourdough baking companion.
//
// Usage:
//
//	levain run [--voice] [--no-speech] [--no-ai]
//	levain calc --flour 800 --loaves 2
//	levain journal list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "levain",
		Short: "Levain - a sourdough companion",
		Long: `Levain walks you through a sourdough bake step by step.
It scales the ingredients, runs the step timers, adjusts fermentation
times to your kitchen's temperature and keeps a journal of your bakes.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/levain/config.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
