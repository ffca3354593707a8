package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/roadwatch/accident-insight/internal/domain"
	"github.com/roadwatch/accident-insight/internal/observability"
)

const sampleCSV = "사고다발지역시도시군구,사고지역위치명,사고유형구분,사고건수,사상자수,사망자수,위도,경도\n" +
	"서울특별시 강남구1,역삼초등학교 부근,스쿨존어린이,10,12,0,37.4951,127.0295\n" +
	"부산광역시 해운대구2,해운대역 앞,보행노인,7,8,1,35.1631,129.1635\n" +
	"경기도 수원시3,수원역 광장,자전거,4,4,0,,\n"

func newTestLoader(t *testing.T, path string, ttl time.Duration, clk clockwork.Clock) *Loader {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	return NewLoader(path, ttl, clk, logger, observability.NewMetricsForTesting())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func encodeEUCKR(t *testing.T, text string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(text))
	require.NoError(t, err)
	return out
}

func TestLoad_EncodingFallback(t *testing.T) {
	t.Run("cp949 file", func(t *testing.T) {
		path := writeFile(t, "sample.csv", encodeEUCKR(t, sampleCSV))
		table, err := newTestLoader(t, path, 0, nil).Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "cp949", table.Meta.Encoding)
		require.Len(t, table.Records, 3)
		assert.Equal(t, "서울특별시 강남구", table.Records[0].CleanedRegion)
		assert.Equal(t, "서울특별시", table.Records[0].Province)
		assert.Equal(t, 10, table.Records[0].Accidents)
	})

	t.Run("utf-8 file", func(t *testing.T) {
		path := writeFile(t, "sample.csv", []byte(sampleCSV))
		table, err := newTestLoader(t, path, 0, nil).Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "utf-8", table.Meta.Encoding)
		assert.Len(t, table.Records, 3)
	})

	t.Run("utf-8 file with BOM", func(t *testing.T) {
		path := writeFile(t, "sample.csv", append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...))
		table, err := newTestLoader(t, path, 0, nil).Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "utf-8", table.Meta.Encoding)
		assert.Len(t, table.Records, 3)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "does-not-exist.csv")
		_, err := newTestLoader(t, path, 0, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrDataUnavailable)
	})

	t.Run("undecodable bytes", func(t *testing.T) {
		path := writeFile(t, "sample.csv", []byte{0x80, 0xFF, 0x80, 0xFF, 0x00})
		_, err := newTestLoader(t, path, 0, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrDataUnavailable)
	})

	t.Run("wrong header", func(t *testing.T) {
		path := writeFile(t, "sample.csv", []byte("a,b,c\n1,2,3\n"))
		_, err := newTestLoader(t, path, 0, nil).Load(context.Background())
		require.ErrorIs(t, err, ErrDataUnavailable)
	})
}

func TestLoad_RowHandling(t *testing.T) {
	t.Run("missing coordinates", func(t *testing.T) {
		path := writeFile(t, "sample.csv", []byte(sampleCSV))
		table, err := newTestLoader(t, path, 0, nil).Load(context.Background())

		require.NoError(t, err)
		assert.False(t, table.Records[2].Geo.Valid())
		assert.True(t, table.Records[0].Geo.Valid())
	})

	t.Run("unparseable count skips row", func(t *testing.T) {
		csv := "사고다발지역시도시군구,사고유형구분,사고건수\n" +
			"서울특별시 강남구1,자전거,abc\n" +
			"서울특별시 강남구2,자전거,5\n"
		path := writeFile(t, "sample.csv", []byte(csv))
		table, err := newTestLoader(t, path, 0, nil).Load(context.Background())

		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, 1, table.Meta.SkippedRows)
		assert.Equal(t, 5, table.Records[0].Accidents)
	})

	t.Run("malformed region kept under default province", func(t *testing.T) {
		csv := "사고다발지역시도시군구,사고유형구분,사고건수\n" +
			"123,자전거,5\n"
		path := writeFile(t, "sample.csv", []byte(csv))
		table, err := newTestLoader(t, path, 0, nil).Load(context.Background())

		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, domain.ProvinceUnknown, table.Records[0].Province)
		assert.Equal(t, 1, table.Meta.MalformedRegions)
	})
}

func TestLoad_Memoization(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	path := writeFile(t, "sample.csv", []byte(sampleCSV))
	loader := newTestLoader(t, path, 10*time.Minute, clk)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Within the TTL the cached table is served even after the file changes.
	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o600))
	again, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again)

	// Past the TTL the file is re-read.
	clk.Advance(11 * time.Minute)
	_, err = loader.Load(context.Background())
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoad_Invalidate(t *testing.T) {
	path := writeFile(t, "sample.csv", []byte(sampleCSV))
	loader := newTestLoader(t, path, 0, nil)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	loader.Invalidate()
	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Meta.Rows, second.Meta.Rows)
}

func TestCheckReadiness(t *testing.T) {
	path := writeFile(t, "sample.csv", []byte(sampleCSV))
	loader := newTestLoader(t, path, 0, nil)

	require.Error(t, loader.CheckReadiness(context.Background()))

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, loader.CheckReadiness(context.Background()))
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"사고다발지역시도시군구", "사고지역위치명", "사고유형구분", "사고건수", "위도", "경도"},
		{"대구광역시 달서구1", "성서초등학교 부근", "스쿨존어린이", 6, 35.8533, 128.5325},
		{"대구광역시 달서구2", "두류공원 입구", "보행어린이", 3, 35.8553, 128.5661},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "sample.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := newTestLoader(t, path, 0, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "xlsx", table.Meta.Encoding)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "대구광역시", table.Records[0].Province)
	assert.InDelta(t, 1.8, table.Records[0].PredictedReduction, 1e-9)
}
