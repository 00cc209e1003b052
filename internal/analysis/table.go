package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names expected in the input header. Names are case-sensitive.
const (
	ColJDay    = "JDAY"
	ColSegment = "SEG"
	ColLayer   = "LAYER"
	ColTemp    = "TEMP"
	ColDO      = "DO"
	ColChla    = "CHLA"
	// Derived columns.
	ColTSI       = "TSI"
	ColLayerType = "LAYER_TYPE"
	avgSuffix    = "_AVG"
)

var requiredColumns = []string{ColJDay, ColSegment, ColLayer, ColTemp, ColDO}

var (
	// ErrMalformedInput marks rows that cannot be parsed into observations.
	ErrMalformedInput = errors.New("malformed input")
	// ErrMissingColumn marks a header lacking a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// LoadError describes why an input file could not be turned into a Table.
type LoadError struct {
	Path   string
	Line   int    // 1-based; 0 when not tied to a line
	Column string // empty when not tied to a column
	Err    error
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	sb.WriteString("load ")
	if e.Path != "" {
		sb.WriteString(e.Path)
	} else {
		sb.WriteString("input")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&sb, " (%s)", e.Column)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options controls the classification thresholds used by the pipeline.
type Options struct {
	// HypolimnionMaxTemp is the inclusive upper temperature bound of the hypolimnion.
	HypolimnionMaxTemp float64
	// ThermoclineMaxTemp is the inclusive upper temperature bound of the thermocline.
	ThermoclineMaxTemp float64
	// IndexName labels the stratification series (CSV value column).
	IndexName string
}

// DefaultOptions returns the standard thresholds (15 °C / 20 °C) and index name.
func DefaultOptions() Options {
	return Options{
		HypolimnionMaxTemp: 15,
		ThermoclineMaxTemp: 20,
		IndexName:          "IC",
	}
}

// Observation is one row of the observation table.
type Observation struct {
	JDay    int
	Segment int
	Layer   int
	Temp    float64
	DO      float64
	Chla    float64

	// Derived values; meaningful only once the matching stage has run.
	TSI       float64
	LayerType LayerType
	OxygenAvg map[LayerType]float64
}

// Table is the in-memory observation table threaded through the pipeline.
type Table struct {
	Name   string
	Header []string
	Rows   []Observation

	HasChla      bool
	HasTSI       bool
	HasLayerType bool
	// AvgLayers lists the layer types that received an averaged DO column.
	AvgLayers []LayerType
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Columns returns the effective schema: input columns followed by derived
// columns in the order the stages appended them.
func (t Table) Columns() []string {
	cols := append([]string(nil), t.Header...)
	if t.HasTSI {
		cols = append(cols, ColTSI)
	}
	if t.HasLayerType {
		cols = append(cols, ColLayerType)
	}
	for _, lt := range t.AvgLayers {
		cols = append(cols, lt.AvgColumn())
	}
	return cols
}

// HasColumn reports whether name is part of the effective schema.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// clone copies the row slice (and per-row maps) so stages never alias the
// caller's table.
func (t Table) clone() Table {
	out := t
	out.Header = append([]string(nil), t.Header...)
	out.AvgLayers = append([]LayerType(nil), t.AvgLayers...)
	out.Rows = make([]Observation, len(t.Rows))
	for i, r := range t.Rows {
		if r.OxygenAvg != nil {
			m := make(map[LayerType]float64, len(r.OxygenAvg))
			for k, v := range r.OxygenAvg {
				m[k] = v
			}
			r.OxygenAvg = m
		}
		out.Rows[i] = r
	}
	return out
}

// Load reads a whitespace-delimited observation file.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return Table{}, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Parse reads whitespace-delimited observations from r. The first non-blank,
// non-comment line is the header.
func Parse(r io.Reader) (Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		t      Table
		index  map[string]int
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if index == nil {
			idx, err := headerIndex(fields)
			if err != nil {
				return Table{}, &LoadError{Line: lineNo, Err: err}
			}
			index = idx
			t.Header = fields
			_, t.HasChla = idx[ColChla]
			continue
		}
		if len(fields) != len(t.Header) {
			return Table{}, &LoadError{Line: lineNo, Err: fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedInput, len(t.Header), len(fields))}
		}
		obs, err := parseRow(fields, index, t.HasChla)
		if err != nil {
			err.Line = lineNo
			return Table{}, err
		}
		t.Rows = append(t.Rows, obs)
	}
	if err := sc.Err(); err != nil {
		return Table{}, &LoadError{Line: lineNo, Err: fmt.Errorf("read: %w", err)}
	}
	if index == nil {
		return Table{}, &LoadError{Err: fmt.Errorf("%w: no header row", ErrMalformedInput)}
	}
	return t, nil
}

func headerIndex(fields []string) (map[string]int, error) {
	idx := make(map[string]int, len(fields))
	for i, name := range fields {
		if _, dup := idx[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedInput, name)
		}
		idx[name] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

type keyField struct {
	col string
	dst *int
}

type valueField struct {
	col string
	dst *float64
}

func parseRow(fields []string, idx map[string]int, hasChla bool) (Observation, *LoadError) {
	obs := Observation{TSI: math.NaN(), Chla: math.NaN()}
	keys := []keyField{{ColJDay, &obs.JDay}, {ColSegment, &obs.Segment}, {ColLayer, &obs.Layer}}
	for _, k := range keys {
		n, err := parseKey(fields[idx[k.col]])
		if err != nil {
			return Observation{}, &LoadError{Column: k.col, Err: err}
		}
		*k.dst = n
	}
	vals := []valueField{{ColTemp, &obs.Temp}, {ColDO, &obs.DO}}
	if hasChla {
		vals = append(vals, valueField{ColChla, &obs.Chla})
	}
	for _, v := range vals {
		f, err := parseValue(fields[idx[v.col]])
		if err != nil {
			return Observation{}, &LoadError{Column: v.col, Err: err}
		}
		*v.dst = f
	}
	return obs, nil
}

// parseKey accepts integers and integral floats such as "60.0".
func parseKey(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedInput, s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedInput, s)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%w: %q is out of range", ErrMalformedInput, s)
	}
	return int(f), nil
}

func isMissing(s string) bool {
	switch s {
	case "NA", "N/A", "NaN", "nan", "null", "NULL", "-":
		return true
	}
	return false
}

func parseValue(s string) (float64, error) {
	if isMissing(s) {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrMalformedInput, s)
	}
	return f, nil
}
