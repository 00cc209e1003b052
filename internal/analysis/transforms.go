package analysis

import (
	"cmp"
	"math"
	"slices"
)

// LayerType is the thermal stratum a row is assigned to by temperature.
type LayerType string

const (
	Hypolimnion  LayerType = "HYPOLIMNION"
	Thermocline  LayerType = "THERMOCLINE"
	Epilimnion   LayerType = "EPILIMNION"
	Unclassified LayerType = ""
)

// layerOrder is the column order for averaged DO columns.
var layerOrder = []LayerType{Hypolimnion, Thermocline, Epilimnion}

// AvgColumn names the averaged dissolved-oxygen column for the layer type.
func (l LayerType) AvgColumn() string { return string(l) + avgSuffix }

// Trophic state index coefficients: TSI = tsiSlope*ln(CHLA) + tsiIntercept.
const (
	tsiSlope     = 9.81
	tsiIntercept = 30.6
)

// WarnNoChla is reported when the input lacks a chlorophyll-a column.
const WarnNoChla = "CHLA column not found. TSI calculation skipped."

// SortObservations orders rows by (JDAY, SEG, LAYER) ascending. Rows with
// identical keys keep their input order.
func SortObservations(t Table) Table {
	out := t.clone()
	slices.SortStableFunc(out.Rows, func(a, b Observation) int {
		if c := cmp.Compare(a.JDay, b.JDay); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Segment, b.Segment); c != 0 {
			return c
		}
		return cmp.Compare(a.Layer, b.Layer)
	})
	return out
}

// TrophicStateIndex returns 9.81*ln(chla)+30.6, or NaN when chla is not
// positive or missing.
func TrophicStateIndex(chla float64) float64 {
	if math.IsNaN(chla) || chla <= 0 {
		return math.NaN()
	}
	return tsiSlope*math.Log(chla) + tsiIntercept
}

// ApplyTSI appends the TSI column. Without a CHLA column the table is returned
// unchanged along with a warning.
func ApplyTSI(t Table) (Table, []string) {
	if !t.HasChla {
		return t, []string{WarnNoChla}
	}
	out := t.clone()
	for i := range out.Rows {
		out.Rows[i].TSI = TrophicStateIndex(out.Rows[i].Chla)
	}
	out.HasTSI = true
	return out, nil
}

// Classify bins a temperature into a layer type using half-open intervals
// (-inf,hypoMax], (hypoMax,thermoMax], (thermoMax,+inf).
func Classify(temp float64, opt Options) LayerType {
	switch {
	case math.IsNaN(temp):
		return Unclassified
	case temp <= opt.HypolimnionMaxTemp:
		return Hypolimnion
	case temp <= opt.ThermoclineMaxTemp:
		return Thermocline
	default:
		return Epilimnion
	}
}

// ClassifyLayers appends the LAYER_TYPE column.
func ClassifyLayers(t Table, opt Options) Table {
	out := t.clone()
	for i := range out.Rows {
		out.Rows[i].LayerType = Classify(out.Rows[i].Temp, opt)
	}
	out.HasLayerType = true
	return out
}

type dayLayer struct {
	day   int
	layer LayerType
}

// AverageOxygen computes the mean DO per (day, layer type) and joins each
// day's averages onto every row of that day, whatever the row's own layer
// type. One column is added per layer type seen anywhere in the table; a type
// absent on a given day yields NaN for that day.
func AverageOxygen(t Table) Table {
	out := t.clone()
	groups := make(map[dayLayer][]float64)
	seen := make(map[LayerType]bool)
	for _, r := range out.Rows {
		if r.LayerType == Unclassified {
			continue
		}
		k := dayLayer{r.JDay, r.LayerType}
		groups[k] = append(groups[k], r.DO)
		seen[r.LayerType] = true
	}

	out.AvgLayers = out.AvgLayers[:0]
	for _, lt := range layerOrder {
		if seen[lt] {
			out.AvgLayers = append(out.AvgLayers, lt)
		}
	}

	means := make(map[dayLayer]float64, len(groups))
	for k, vals := range groups {
		means[k] = meanSkipNaN(vals)
	}
	for i := range out.Rows {
		avg := make(map[LayerType]float64, len(out.AvgLayers))
		for _, lt := range out.AvgLayers {
			m, ok := means[dayLayer{out.Rows[i].JDay, lt}]
			if !ok {
				m = math.NaN()
			}
			avg[lt] = m
		}
		out.Rows[i].OxygenAvg = avg
	}
	return out
}
