package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/accident-insight/internal/domain"
)

func mustDerive(t *testing.T, recs ...domain.AccidentRecord) []domain.DerivedRecord {
	t.Helper()
	derived, stats := domain.DeriveTable(recs)
	require.Zero(t, stats.MalformedRegions)
	return derived
}

func testRecords(t *testing.T) []domain.DerivedRecord {
	t.Helper()
	return mustDerive(t,
		domain.AccidentRecord{Region: "서울특별시 강남구1", Type: domain.TypeSchoolZoneChildren, Accidents: 10},
		domain.AccidentRecord{Region: "서울특별시 서초구2", Type: domain.TypeBicycle, Accidents: 4},
		domain.AccidentRecord{Region: "부산광역시 해운대구1", Type: domain.TypeSchoolZoneChildren, Accidents: 7},
		domain.AccidentRecord{Region: "부산광역시 해운대구2", Type: domain.TypePedestrianElderly, Accidents: 5},
	)
}

func TestApply(t *testing.T) {
	records := testRecords(t)

	t.Run("sentinel province spans provinces", func(t *testing.T) {
		rows := Apply(records, Filter{Province: ProvinceAll, Types: []string{domain.TypeSchoolZoneChildren}})
		require.Len(t, rows, 2)
		assert.Equal(t, "서울특별시", rows[0].Province)
		assert.Equal(t, "부산광역시", rows[1].Province)
	})

	t.Run("empty province treated as sentinel", func(t *testing.T) {
		assert.Len(t, Apply(records, Filter{}), 4)
	})

	t.Run("province restricts rows", func(t *testing.T) {
		rows := Apply(records, Filter{Province: "부산광역시"})
		require.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, "부산광역시", r.Province)
		}
	})

	t.Run("unmatched province yields empty not error", func(t *testing.T) {
		assert.Empty(t, Apply(records, Filter{Province: "강원특별자치도"}))
	})

	t.Run("empty non-nil type set yields zero rows", func(t *testing.T) {
		assert.Empty(t, Apply(records, Filter{Province: ProvinceAll, Types: []string{}}))
		assert.Empty(t, Apply(records, Filter{Province: "서울특별시", Types: []string{}}))
	})

	t.Run("nil types means all types", func(t *testing.T) {
		assert.Len(t, Apply(records, Filter{Province: ProvinceAll}), 4)
	})

	t.Run("source order preserved", func(t *testing.T) {
		rows := Apply(records, Filter{})
		assert.Equal(t, "서울특별시 강남구", rows[0].CleanedRegion)
		assert.Equal(t, "부산광역시 해운대구", rows[3].CleanedRegion)
	})
}

func TestFilterKey(t *testing.T) {
	assert.Equal(t, "전체|*", Filter{}.Key())
	assert.Equal(t, "서울특별시|*", Filter{Province: "서울특별시"}.Key())
	assert.Equal(t, "전체|", Filter{Types: []string{}}.Key())

	// Type order does not matter.
	a := Filter{Types: []string{"자전거", "보행노인"}}.Key()
	b := Filter{Types: []string{"보행노인", "자전거"}}.Key()
	assert.Equal(t, a, b)
}

func TestOptionsFor(t *testing.T) {
	records := testRecords(t)

	t.Run("all provinces", func(t *testing.T) {
		opts := OptionsFor(records, ProvinceAll)
		assert.Equal(t, []string{"부산광역시", "서울특별시"}, opts.Provinces)
		assert.Equal(t, []string{domain.TypePedestrianElderly, domain.TypeSchoolZoneChildren, domain.TypeBicycle}, opts.Types)
	})

	t.Run("types follow province selection", func(t *testing.T) {
		opts := OptionsFor(records, "서울특별시")
		assert.Equal(t, []string{"부산광역시", "서울특별시"}, opts.Provinces)
		assert.Equal(t, []string{domain.TypeSchoolZoneChildren, domain.TypeBicycle}, opts.Types)
	})
}
