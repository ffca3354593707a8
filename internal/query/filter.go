// Package query narrows the derived table by province and accident type and
// computes the aggregates the dashboard renders. Every function here is a
// pure projection over immutable records; filtering never mutates and always
// preserves source row order.
package query

import (
	"sort"
	"strings"

	"github.com/roadwatch/accident-insight/internal/domain"
)

// ProvinceAll is the sentinel meaning "no province restriction".
const ProvinceAll = "전체"

// Filter selects rows of the derived table.
//
// Types distinguishes three states, matching the UI multi-select: nil means
// all types, an empty non-nil set selects zero rows, and a populated set
// selects exact matches.
type Filter struct {
	Province string
	Types    []string
}

// Key is a canonical string form of the filter, used as a cache key.
func (f Filter) Key() string {
	province := f.Province
	if province == "" {
		province = ProvinceAll
	}
	if f.Types == nil {
		return province + "|*"
	}
	types := append([]string(nil), f.Types...)
	sort.Strings(types)
	return province + "|" + strings.Join(types, ",")
}

// Apply returns the rows matching the filter, in source order. An unmatched
// non-sentinel province yields an empty result, not an error.
func Apply(records []domain.DerivedRecord, f Filter) []domain.DerivedRecord {
	var typeSet map[string]bool
	if f.Types != nil {
		typeSet = make(map[string]bool, len(f.Types))
		for _, t := range f.Types {
			typeSet[t] = true
		}
	}

	allProvinces := f.Province == "" || f.Province == ProvinceAll

	rows := make([]domain.DerivedRecord, 0, len(records))
	for _, rec := range records {
		if !allProvinces && rec.Province != f.Province {
			continue
		}
		if typeSet != nil && !typeSet[rec.Type] {
			continue
		}
		rows = append(rows, rec)
	}
	return rows
}

// Options are the choices the filter controls offer for a given province
// selection: all provinces in the dataset, and the types present within the
// province-filtered subset (which double as the multi-select default).
type Options struct {
	Provinces []string `json:"provinces"`
	Types     []string `json:"types"`
}

// OptionsFor computes sorted distinct filter choices.
func OptionsFor(records []domain.DerivedRecord, province string) Options {
	provinces := map[string]bool{}
	types := map[string]bool{}

	allProvinces := province == "" || province == ProvinceAll
	for _, rec := range records {
		provinces[rec.Province] = true
		if allProvinces || rec.Province == province {
			types[rec.Type] = true
		}
	}

	return Options{
		Provinces: sortedKeys(provinces),
		Types:     sortedKeys(types),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
