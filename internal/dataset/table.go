package dataset

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roadwatch/accident-insight/internal/domain"
)

// Source dataset column headers as published on the data portal.
const (
	colRegion     = "사고다발지역시도시군구"
	colLocation   = "사고지역위치명"
	colType       = "사고유형구분"
	colAccidents  = "사고건수"
	colCasualties = "사상자수"
	colDeaths     = "사망자수"
	colLat        = "위도"
	colLon        = "경도"
)

// Meta describes one successful load.
type Meta struct {
	Path             string    `json:"path"`
	Encoding         string    `json:"encoding"` // cp949, euc-kr, utf-8, or xlsx
	Rows             int       `json:"rows"`
	SkippedRows      int       `json:"skipped_rows"`
	MalformedRegions int       `json:"malformed_regions"`
	LoadedAt         time.Time `json:"loaded_at"`
}

// Table is the derived, immutable dataset served for the rest of a session.
// Records are never mutated after construction; downstream filtering builds
// new slices over them.
type Table struct {
	Records []domain.DerivedRecord
	Meta    Meta
}

// parseCSV parses decoded CSV text into raw accident records.
func parseCSV(text string) ([]domain.AccidentRecord, int, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv: %w", err)
	}

	return recordsFromRows(rows)
}

// recordsFromRows converts header-plus-data rows into raw accident records.
// Shared between the CSV and xlsx paths. Rows whose accident count does not
// parse as a non-negative integer are skipped and counted.
func recordsFromRows(rows [][]string) ([]domain.AccidentRecord, int, error) {
	if len(rows) < 1 {
		return nil, 0, fmt.Errorf("no header row")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colRegion, colType, colAccidents} {
		if _, ok := colIdx[required]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", required)
		}
	}

	records := make([]domain.AccidentRecord, 0, len(rows)-1)
	skipped := 0

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		accidents, err := strconv.Atoi(get(row, colIdx, colAccidents))
		if err != nil || accidents < 0 {
			skipped++
			continue
		}

		records = append(records, domain.AccidentRecord{
			Region:     get(row, colIdx, colRegion),
			Location:   get(row, colIdx, colLocation),
			Type:       get(row, colIdx, colType),
			Accidents:  accidents,
			Casualties: intOrZero(get(row, colIdx, colCasualties)),
			Deaths:     intOrZero(get(row, colIdx, colDeaths)),
			Geo: domain.Geo{
				Lat: floatOrZero(get(row, colIdx, colLat)),
				Lon: floatOrZero(get(row, colIdx, colLon)),
			},
		})
	}

	return records, skipped, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func floatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
