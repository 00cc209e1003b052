package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/limnostrat/internal/log"
)

// Result is the outcome of a successful pipeline run.
type Result struct {
	Table    Table
	Series   Series
	Warnings []string
}

// Run loads the observation file at path and applies every stage in order:
// sort, TSI, layer classification, oxygen averages and the stratification
// index. A load failure aborts the run before any stage executes.
func Run(path string, opt Options) (*Result, error) {
	t, err := Load(path)
	if err != nil {
		log.Errorf("Error reading file: %v", err)
		return nil, err
	}
	log.Infof("File read successfully. Columns found: [%s]", strings.Join(t.Header, " "))
	return Process(t, opt), nil
}

// Process runs every stage after loading on an in-memory table.
func Process(t Table, opt Options) *Result {
	res := &Result{}
	t = SortObservations(t)

	t, warns := ApplyTSI(t)
	for _, w := range warns {
		log.Warnf("Warning: %s", w)
	}
	res.Warnings = append(res.Warnings, warns...)

	t = ClassifyLayers(t, opt)
	t = AverageOxygen(t)
	if t.Len() == 0 {
		w := "input contains no observations"
		log.Warnf("Warning: %s", w)
		res.Warnings = append(res.Warnings, w)
	}

	name := opt.IndexName
	if name == "" {
		name = DefaultOptions().IndexName
	}
	res.Table = t
	res.Series = Stratification(t, name)
	log.Debugf("processed %d rows over %d days; columns: %s", t.Len(), res.Series.Len(), strings.Join(t.Columns(), ","))
	return res
}

// Summary renders a short human-readable description of the run.
func (r *Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rows: %d\n", r.Table.Len())
	fmt.Fprintf(&sb, "Days: %d\n", r.Series.Len())
	fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(r.Table.Columns(), ", "))
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	return sb.String()
}
