// Command genmock generates a synthetic accident-hotspot dataset in the
// portal's file format, for local development and manual testing. It writes
// an EUC-KR encoded file matching what the portal actually serves, plus a
// UTF-8 twin for editors.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/전국교통사고다발지역표준데이터.csv -rows 200
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/roadwatch/accident-insight/internal/domain"
	"github.com/roadwatch/accident-insight/internal/query"
)

var header = []string{
	"사고다발지역시도시군구", "사고지역위치명", "사고유형구분",
	"사고건수", "사상자수", "사망자수", "위도", "경도",
}

type district struct {
	region string
	lat    float64
	lon    float64
}

var districts = []district{
	{"서울특별시 강남구", 37.5172, 127.0473},
	{"서울특별시 관악구", 37.4784, 126.9516},
	{"서울특별시 노원구", 37.6542, 127.0568},
	{"부산광역시 해운대구", 35.1631, 129.1635},
	{"부산광역시 사하구", 35.1041, 128.9745},
	{"대구광역시 달서구", 35.8298, 128.5326},
	{"인천광역시 부평구", 37.5070, 126.7219},
	{"광주광역시 북구", 35.1743, 126.9120},
	{"대전광역시 서구", 36.3553, 127.3838},
	{"경기도 수원시팔달구", 37.2826, 127.0192},
	{"경기도 성남시분당구", 37.3827, 127.1189},
	{"강원특별자치도 춘천시", 37.8813, 127.7298},
	{"전북특별자치도 전주시완산구", 35.8120, 127.1470},
	{"경상남도 창원시의창구", 35.2540, 128.6402},
	{"제주특별자치도 제주시", 33.4996, 126.5312},
}

var accidentTypes = []string{
	domain.TypeSchoolZoneChildren,
	domain.TypePedestrianChildren,
	domain.TypePedestrianElderly,
	domain.TypeBicycle,
	"기타",
}

var landmarks = []string{
	"초등학교 부근", "지하철역 출구", "시장 입구", "아파트단지 앞",
	"공원 교차로", "버스터미널 앞", "대로 횡단보도", "복지관 부근",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the EUC-KR encoded CSV")
	rows := flag.Int("rows", 200, "number of data rows to generate")
	seed := flag.Int64("seed", 1, "random seed, fixed by default for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	records := make([][]string, 0, *rows)
	raw := make([]domain.AccidentRecord, 0, *rows)
	for i := 0; i < *rows; i++ {
		d := districts[rng.Intn(len(districts))]
		zone := rng.Intn(9) + 1
		accidents := rng.Intn(15) + 1
		casualties := accidents + rng.Intn(accidents+1)
		deaths := rng.Intn(2)
		typ := accidentTypes[rng.Intn(len(accidentTypes))]
		lat := d.lat + rng.Float64()*0.02 - 0.01
		lon := d.lon + rng.Float64()*0.02 - 0.01
		location := strings.Fields(d.region)[1] + " " + landmarks[rng.Intn(len(landmarks))]

		records = append(records, []string{
			d.region + strconv.Itoa(zone),
			location,
			typ,
			strconv.Itoa(accidents),
			strconv.Itoa(casualties),
			strconv.Itoa(deaths),
			strconv.FormatFloat(lat, 'f', 5, 64),
			strconv.FormatFloat(lon, 'f', 5, 64),
		})
		raw = append(raw, domain.AccidentRecord{
			Region:    d.region + strconv.Itoa(zone),
			Type:      typ,
			Accidents: accidents,
		})
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	encoded, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(sb.String()))
	if err != nil {
		return fmt.Errorf("encode euc-kr: %w", err)
	}
	if err := writeFile(*out, encoded); err != nil {
		return err
	}
	log.Printf("wrote %d rows: %s (euc-kr)", *rows, *out)

	utf8Out := strings.TrimSuffix(*out, filepath.Ext(*out)) + ".utf8.csv"
	if err := writeFile(utf8Out, []byte(sb.String())); err != nil {
		return err
	}
	log.Printf("wrote utf-8 twin: %s", utf8Out)

	printStats(raw)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// printStats derives the generated rows and reports the simulation figures,
// a quick sanity check that the fixture exercises every category.
func printStats(raw []domain.AccidentRecord) {
	derived, stats := domain.DeriveTable(raw)
	summary := query.Summarize(derived)

	log.Printf("derived: %d records, %d malformed regions", stats.Records, stats.MalformedRegions)
	log.Printf("totals: %d accidents, %.1f predicted reduction (%.1f%%)",
		summary.TotalAccidents, summary.TotalReduction, summary.ReductionPct)

	for _, agg := range query.ByCategory(derived) {
		log.Printf("  %s: %d accidents", agg.Key, agg.Accidents)
	}
}
