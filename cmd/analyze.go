package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/limnostrat/internal/analysis"
	cfgpkg "github.com/KaramelBytes/limnostrat/internal/config"
	"github.com/KaramelBytes/limnostrat/internal/log"
	"github.com/KaramelBytes/limnostrat/internal/report"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// runFlags are the pipeline overrides shared by analyze and analyze-batch.
type runFlags struct {
	outDir       string
	csvName      string
	pngName      string
	indexName    string
	hypoMax      float64
	thermoMax    float64
	plotWidth    float64
	plotHeight   float64
	plotDPI      int
	printSummary bool
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.outDir, "out-dir", "o", "", "directory for IC_time_series.csv/.png (overrides config)")
	fs.StringVar(&f.csvName, "csv-name", "", "CSV output file name (overrides config)")
	fs.StringVar(&f.pngName, "png-name", "", "PNG output file name (overrides config)")
	fs.StringVar(&f.indexName, "index-name", "", "name of the index column in the CSV header (overrides config)")
	fs.Float64Var(&f.hypoMax, "hypolimnion-max", 0, "upper temperature bound of the hypolimnion (inclusive)")
	fs.Float64Var(&f.thermoMax, "thermocline-max", 0, "upper temperature bound of the thermocline (inclusive)")
	fs.Float64Var(&f.plotWidth, "plot-width", 0, "chart width in inches")
	fs.Float64Var(&f.plotHeight, "plot-height", 0, "chart height in inches")
	fs.IntVar(&f.plotDPI, "plot-dpi", 0, "chart resolution in dots per inch")
	fs.BoolVar(&f.printSummary, "summary", false, "print a table summary after the run")
}

// apply overlays explicitly set flags onto c.
func (f *runFlags) apply(fs *pflag.FlagSet, c *cfgpkg.Global) {
	if fs.Changed("out-dir") {
		c.OutputDir = f.outDir
	}
	if fs.Changed("csv-name") {
		c.CSVName = f.csvName
	}
	if fs.Changed("png-name") {
		c.PNGName = f.pngName
	}
	if fs.Changed("index-name") {
		c.IndexName = f.indexName
	}
	if fs.Changed("hypolimnion-max") {
		c.HypolimnionMaxTemp = f.hypoMax
	}
	if fs.Changed("thermocline-max") {
		c.ThermoclineMaxTemp = f.thermoMax
	}
	if fs.Changed("plot-width") {
		c.PlotWidthIn = f.plotWidth
	}
	if fs.Changed("plot-height") {
		c.PlotHeightIn = f.plotHeight
	}
	if fs.Changed("plot-dpi") {
		c.PlotDPI = f.plotDPI
	}
}

func analysisOptions(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.HypolimnionMaxTemp = c.HypolimnionMaxTemp
	opt.ThermoclineMaxTemp = c.ThermoclineMaxTemp
	if strings.TrimSpace(c.IndexName) != "" {
		opt.IndexName = strings.TrimSpace(c.IndexName)
	}
	return opt
}

func reportOptions(c *cfgpkg.Global) report.Options {
	return report.Options{
		CSVName: c.CSVName,
		PNGName: c.PNGName,
		Plot: report.PlotOptions{
			WidthIn:  c.PlotWidthIn,
			HeightIn: c.PlotHeightIn,
			DPI:      c.PlotDPI,
		},
	}
}

// runAnalysis executes the pipeline for one input and writes its artifacts
// into outDir. Nothing is written when loading fails.
func runAnalysis(input, outDir string, c *cfgpkg.Global) (*analysis.Result, report.Paths, error) {
	base := log.GetZapLogger()
	log.SetLogger(base.With(zap.String("run_id", uuid.NewString())))
	defer log.SetLogger(base)

	log.Debugf("analyzing %s into %s", input, outDir)
	res, err := analysis.Run(input, analysisOptions(c))
	if err != nil {
		return nil, report.Paths{}, fmt.Errorf("analysis aborted: %w", err)
	}
	paths, err := report.Write(outDir, res.Series, reportOptions(c))
	if err != nil {
		log.Errorf("Error writing results: %v", err)
		return nil, report.Paths{}, fmt.Errorf("write results: %w", err)
	}
	return res, paths, nil
}

var anaFlags runFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Compute the stratification index for a profile file and write CSV + PNG",
	Long: `Reads a whitespace-delimited profile file (default: input_path from config),
sorts it by day/segment/layer, computes TSI, layer types, per-day oxygen averages
and the chemical stratification index, then writes the index as CSV and PNG.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		anaFlags.apply(cmd.Flags(), c)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		input := c.InputPath
		if len(args) == 1 {
			input = args[0]
		}
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("no input file: pass a path or set input_path")
		}

		res, paths, err := runAnalysis(input, c.OutputDir, c)
		if err != nil {
			return err
		}
		if anaFlags.printSummary {
			fmt.Print(res.Summary())
		}
		fmt.Printf("✓ Analysis complete. Results saved to %s and %s\n", paths.CSV, paths.PNG)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd.Flags())
}
