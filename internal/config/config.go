package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dirName = ".limnostrat"

// Global configuration structure.
type Global struct {
	InputPath string `mapstructure:"input_path" yaml:"input_path"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	CSVName   string `mapstructure:"csv_name" yaml:"csv_name"`
	PNGName   string `mapstructure:"png_name" yaml:"png_name"`
	IndexName string `mapstructure:"index_name" yaml:"index_name"`

	// Layer classification thresholds (°C, inclusive upper bounds)
	HypolimnionMaxTemp float64 `mapstructure:"hypolimnion_max_temp" yaml:"hypolimnion_max_temp"`
	ThermoclineMaxTemp float64 `mapstructure:"thermocline_max_temp" yaml:"thermocline_max_temp"`

	// Chart size
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	PlotDPI      int     `mapstructure:"plot_dpi" yaml:"plot_dpi"`
}

// Validate checks the threshold and chart settings for consistency.
func (c *Global) Validate() error {
	if c.HypolimnionMaxTemp >= c.ThermoclineMaxTemp {
		return fmt.Errorf("hypolimnion_max_temp (%g) must be below thermocline_max_temp (%g)", c.HypolimnionMaxTemp, c.ThermoclineMaxTemp)
	}
	if c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g in", c.PlotWidthIn, c.PlotHeightIn)
	}
	if c.PlotDPI <= 0 {
		return fmt.Errorf("plot_dpi must be positive, got %d", c.PlotDPI)
	}
	if c.CSVName == "" || c.PNGName == "" {
		return fmt.Errorf("csv_name and png_name must not be empty")
	}
	return nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.limnostrat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LIMNOSTRAT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input_path", "spr.opt")
	v.SetDefault("output_dir", ".")
	v.SetDefault("csv_name", "IC_time_series.csv")
	v.SetDefault("png_name", "IC_time_series.png")
	v.SetDefault("index_name", "IC")
	v.SetDefault("hypolimnion_max_temp", 15.0)
	v.SetDefault("thermocline_max_temp", 20.0)
	v.SetDefault("plot_width_in", 12.0)
	v.SetDefault("plot_height_in", 6.0)
	v.SetDefault("plot_dpi", 100)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
