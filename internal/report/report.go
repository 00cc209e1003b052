// Package report renders the stratification series to its CSV and PNG
// artifacts.
package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/limnostrat/internal/analysis"
	"github.com/KaramelBytes/limnostrat/internal/utils"
)

// Default artifact names.
const (
	DefaultCSVName = "IC_time_series.csv"
	DefaultPNGName = "IC_time_series.png"
)

// Options controls where and how artifacts are written.
type Options struct {
	CSVName string
	PNGName string
	Plot    PlotOptions
}

// DefaultOptions returns the standard artifact names and chart size.
func DefaultOptions() Options {
	return Options{CSVName: DefaultCSVName, PNGName: DefaultPNGName, Plot: DefaultPlotOptions()}
}

// Paths lists the files produced by Write.
type Paths struct {
	CSV string
	PNG string
}

// Write renders both artifacts in memory, stages both as temp files in dir and
// renames them into place once both are written. If any step fails no temp
// file is left behind and existing outputs are not removed.
func Write(dir string, s analysis.Series, opt Options) (Paths, error) {
	if opt.CSVName == "" {
		opt.CSVName = DefaultCSVName
	}
	if opt.PNGName == "" {
		opt.PNGName = DefaultPNGName
	}
	if dir == "" {
		dir = "."
	}
	paths := Paths{CSV: filepath.Join(dir, opt.CSVName), PNG: filepath.Join(dir, opt.PNGName)}
	if paths.CSV == paths.PNG {
		return Paths{}, errors.New("csv and png outputs resolve to the same path")
	}

	csvData, err := RenderCSV(s)
	if err != nil {
		return Paths{}, err
	}
	pngData, err := RenderPNG(s, opt.Plot)
	if err != nil {
		return Paths{}, fmt.Errorf("render chart: %w", err)
	}

	if err := utils.EnsureDir(dir); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}
	// The CSV is renamed first: a failure there leaves the previous run's
	// pair untouched.
	err = utils.SafeWriteFiles(
		utils.StagedFile{Path: paths.CSV, Data: csvData},
		utils.StagedFile{Path: paths.PNG, Data: pngData},
	)
	if err != nil {
		return Paths{}, fmt.Errorf("write outputs: %w", err)
	}
	return paths, nil
}
