package query

import (
	"sort"

	"github.com/roadwatch/accident-insight/internal/domain"
)

// Summary holds the KPI figures shown above the charts.
type Summary struct {
	TotalAccidents int     `json:"total_accidents"`
	TotalReduction float64 `json:"total_reduction"`
	ReductionPct   float64 `json:"reduction_pct"`
}

// Summarize computes the KPIs over filtered rows. ReductionPct is 0 for an
// empty selection; the divide-by-zero guard is part of the contract, not an
// accident.
func Summarize(rows []domain.DerivedRecord) Summary {
	s := Summary{}
	for _, r := range rows {
		s.TotalAccidents += r.Accidents
		s.TotalReduction += r.PredictedReduction
	}
	if s.TotalAccidents > 0 {
		s.ReductionPct = s.TotalReduction / float64(s.TotalAccidents) * 100
	}
	return s
}

// Aggregate is a grouped sum over filtered rows, keyed by accident type or
// by cleaned region.
type Aggregate struct {
	Key                string  `json:"key"`
	Accidents          int     `json:"accidents"`
	PredictedReduction float64 `json:"predicted_reduction"`
	PredictedRemaining float64 `json:"predicted_remaining"`
}

// ByCategory sums accident counts and simulation figures per accident type,
// sorted by type string for stable chart ordering.
func ByCategory(rows []domain.DerivedRecord) []Aggregate {
	aggs := groupBy(rows, func(r domain.DerivedRecord) string { return r.Type })
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Key < aggs[j].Key })
	return aggs
}

// TopRegions sums per cleaned region and returns the n regions with the
// highest accident counts, ordered ascending (chart renders bottom-up).
// The sort is stable, so ties keep first-appearance order.
func TopRegions(rows []domain.DerivedRecord, n int) []Aggregate {
	aggs := groupBy(rows, func(r domain.DerivedRecord) string { return r.CleanedRegion })
	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].Accidents < aggs[j].Accidents })
	if len(aggs) > n {
		aggs = aggs[len(aggs)-n:]
	}
	return aggs
}

// groupBy accumulates sums per key, keeping first-appearance order.
func groupBy(rows []domain.DerivedRecord, keyOf func(domain.DerivedRecord) string) []Aggregate {
	index := map[string]int{}
	aggs := []Aggregate{}

	for _, r := range rows {
		key := keyOf(r)
		i, ok := index[key]
		if !ok {
			i = len(aggs)
			index[key] = i
			aggs = append(aggs, Aggregate{Key: key})
		}
		aggs[i].Accidents += r.Accidents
		aggs[i].PredictedReduction += r.PredictedReduction
		aggs[i].PredictedRemaining += r.PredictedRemaining
	}
	return aggs
}

// MapPoint is one marker on the browser map layer.
type MapPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Location  string  `json:"location"`
	Type      string  `json:"type"`
	Accidents int     `json:"accidents"`
}

// MapPoints returns the filtered rows that carry coordinates.
func MapPoints(rows []domain.DerivedRecord) []MapPoint {
	points := make([]MapPoint, 0, len(rows))
	for _, r := range rows {
		if !r.Geo.Valid() {
			continue
		}
		points = append(points, MapPoint{
			Lat:       r.Geo.Lat,
			Lon:       r.Geo.Lon,
			Location:  r.Location,
			Type:      r.Type,
			Accidents: r.Accidents,
		})
	}
	return points
}
