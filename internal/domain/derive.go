package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedRegion marks a region label that yields no province token
// after cleaning (empty or whitespace-only).
var ErrMalformedRegion = errors.New("region label has no province token")

// ProvinceUnknown is the province assigned by DeriveTable to records whose
// region label cannot be attributed. Kept rather than dropped so the zone
// still shows up in totals and the detail table.
const ProvinceUnknown = "미상"

// trailingDigitsRe matches the per-district zone counter at the end of a
// region label, e.g. "서울특별시 강남구1" -> strips "1".
var trailingDigitsRe = regexp.MustCompile(`\d+$`)

// CleanRegion strips a trailing run of decimal digits from a region label.
// Labels without a suffix, including the empty string, pass through unchanged.
func CleanRegion(label string) string {
	return trailingDigitsRe.ReplaceAllString(label, "")
}

// ProvinceOf extracts the top-level administrative region from a cleaned
// label: its first whitespace-delimited token. Returns ErrMalformedRegion
// when the label has no token.
func ProvinceOf(cleaned string) (string, error) {
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return "", ErrMalformedRegion
	}
	return fields[0], nil
}

// DeriveRecord computes the enriched form of a single record. Pure and
// deterministic apart from the ProcessedAt stamp.
//
// On a malformed region label the returned record is still fully derived
// with Province set to ProvinceUnknown, and the error is ErrMalformedRegion;
// callers choose between strict handling (cmd/validate) and the keep-with-
// default policy (DeriveTable).
func DeriveRecord(rec AccidentRecord) (DerivedRecord, error) {
	cleaned := CleanRegion(rec.Region)

	var derr error
	province, err := ProvinceOf(cleaned)
	if err != nil {
		province = ProvinceUnknown
		derr = err
	}

	category := ParseCategory(rec.Type)
	plan := category.Plan()

	reduction := float64(rec.Accidents) * plan.Rate

	return DerivedRecord{
		AccidentRecord: rec,

		CleanedRegion:      cleaned,
		Province:           province,
		Category:           category,
		Strategy:           plan.Strategy,
		ReductionRate:      plan.Rate,
		PredictedReduction: reduction,
		PredictedRemaining: float64(rec.Accidents) - reduction,
		ProcessedAt:        clock.Now(),
	}, derr
}

// DeriveStats summarizes one derivation pass over a table.
type DeriveStats struct {
	Records          int
	MalformedRegions int
}

// DeriveTable derives every record of a table, applying the keep-with-
// ProvinceUnknown policy to malformed region labels. The input slice is
// never mutated and row order is preserved.
func DeriveTable(recs []AccidentRecord) ([]DerivedRecord, DeriveStats) {
	derived := make([]DerivedRecord, 0, len(recs))
	stats := DeriveStats{Records: len(recs)}

	for _, rec := range recs {
		d, err := DeriveRecord(rec)
		if errors.Is(err, ErrMalformedRegion) {
			stats.MalformedRegions++
		}
		derived = append(derived, d)
	}

	return derived, stats
}
