package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is one day of the stratification series.
type Point struct {
	Day   int
	Value float64
}

// Series maps Julian day to a single value, ordered by day ascending.
type Series struct {
	Name   string
	Points []Point
}

// Len returns the number of days in the series.
func (s Series) Len() int { return len(s.Points) }

// Value returns the value for day and whether the day is present.
func (s Series) Value(day int) (float64, bool) {
	i := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Day >= day })
	if i < len(s.Points) && s.Points[i].Day == day {
		return s.Points[i].Value, true
	}
	return 0, false
}

// Stratification computes the chemical stratification index per day:
// max(DO) - min(DO) across every row of that day.
func Stratification(t Table, name string) Series {
	byDay := make(map[int][]float64)
	for _, r := range t.Rows {
		byDay[r.JDay] = append(byDay[r.JDay], r.DO)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	s := Series{Name: name, Points: make([]Point, 0, len(days))}
	for _, d := range days {
		s.Points = append(s.Points, Point{Day: d, Value: spread(byDay[d])})
	}
	return s
}

func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// spread is max-min over non-missing values; NaN when none remain.
func spread(vals []float64) float64 {
	v := present(vals)
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Max(v) - floats.Min(v)
}

func meanSkipNaN(vals []float64) float64 {
	v := present(vals)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}
