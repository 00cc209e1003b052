package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/limnostrat/internal/analysis"
)

// RenderCSV encodes the series as "JDAY,<name>" plus one row per day.
func RenderCSV(s analysis.Series) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	name := s.Name
	if name == "" {
		name = "IC"
	}
	if err := w.Write([]string{analysis.ColJDay, name}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range s.Points {
		if err := w.Write([]string{strconv.Itoa(p.Day), formatFloat(p.Value)}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatFloat writes the shortest representation, keeping a ".0" on integral
// values. Missing values become an empty field.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	format := byte('f')
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		format = 'e'
	}
	s := strconv.FormatFloat(v, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
