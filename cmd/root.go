package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/limnostrat/internal/config"
	"github.com/KaramelBytes/limnostrat/internal/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "limnostrat",
	Short: "limnostrat: water-quality stratification metrics from profile time series",
	Long: `limnostrat reads a whitespace-delimited water-quality profile time series
(JDAY SEG LAYER TEMP DO [CHLA]), derives the trophic state index, thermal layer
types and per-day oxygen averages, and writes the chemical stratification index
as IC_time_series.csv and IC_time_series.png.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(debug)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.limnostrat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
}

// effectiveConfig returns a copy of the loaded config, reloading it if the
// startup load failed.
func effectiveConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		c := *cfg
		return &c, nil
	}
	return cfgpkg.Load(cfgFile)
}
