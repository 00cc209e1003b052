package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/limnostrat/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set limnostrat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("input_path: %s\n", cfg.InputPath)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("csv_name: %s\n", cfg.CSVName)
		fmt.Printf("png_name: %s\n", cfg.PNGName)
		fmt.Printf("index_name: %s\n", cfg.IndexName)
		fmt.Printf("hypolimnion_max_temp: %g\n", cfg.HypolimnionMaxTemp)
		fmt.Printf("thermocline_max_temp: %g\n", cfg.ThermoclineMaxTemp)
		fmt.Printf("plot_width_in: %g\n", cfg.PlotWidthIn)
		fmt.Printf("plot_height_in: %g\n", cfg.PlotHeightIn)
		fmt.Printf("plot_dpi: %d\n", cfg.PlotDPI)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "input_path":
			cfg.InputPath = val
		case "output_dir":
			cfg.OutputDir = val
		case "csv_name":
			cfg.CSVName = val
		case "png_name":
			cfg.PNGName = val
		case "index_name":
			cfg.IndexName = val
		case "hypolimnion_max_temp":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for hypolimnion_max_temp: %w", err)
			}
			cfg.HypolimnionMaxTemp = f
		case "thermocline_max_temp":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for thermocline_max_temp: %w", err)
			}
			cfg.ThermoclineMaxTemp = f
		case "plot_width_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid width for plot_width_in: %v", val)
			}
			cfg.PlotWidthIn = f
		case "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid height for plot_height_in: %v", val)
			}
			cfg.PlotHeightIn = f
		case "plot_dpi":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for plot_dpi: %v", val)
			}
			cfg.PlotDPI = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
