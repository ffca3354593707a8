package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roadwatch/accident-insight/internal/domain"
	"github.com/roadwatch/accident-insight/internal/query"
)

func exportRows(t *testing.T) []domain.DerivedRecord {
	t.Helper()
	derived, stats := domain.DeriveTable([]domain.AccidentRecord{
		{Region: "서울특별시 강남구1", Location: "역삼초등학교 부근", Type: domain.TypeSchoolZoneChildren, Accidents: 9},
		{Region: "부산광역시 해운대구2", Location: "해운대역 앞", Type: "기타", Accidents: 3},
	})
	require.Zero(t, stats.MalformedRegions)
	return derived
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportRows(t)))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, utf8BOM), "expected BOM prefix")

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "지역,위치,유형,사고건수,제안 개선안,예상 감소수", lines[0])
	// 9 × 0.30 = 2.7, one decimal place.
	assert.Equal(t, "서울특별시 강남구1,역삼초등학교 부근,스쿨존어린이,9,스쿨존 과속단속/시인성 강화,2.7", lines[1])
	// 3 × 0.10 rounds to 0.3.
	assert.Equal(t, "부산광역시 해운대구2,해운대역 앞,기타,3,일반 안전 점검,0.3", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()[3:]), "\n")
	assert.Len(t, lines, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportRows(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, viewHeader, rows[0])
	assert.Equal(t, "서울특별시 강남구1", rows[1][0])
	assert.Equal(t, "2.7", rows[1][5])
}

func TestRenderTopRegionsChart(t *testing.T) {
	regions := []query.Aggregate{
		{Key: "부산광역시 해운대구", Accidents: 3, PredictedReduction: 0.3, PredictedRemaining: 2.7},
		{Key: "서울특별시 강남구", Accidents: 9, PredictedReduction: 2.7, PredictedRemaining: 6.3},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderTopRegionsChart(&buf, regions))

	// PNG magic bytes.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 2.7, round1(2.6999999999999997))
	assert.Equal(t, 0.3, round1(0.30000000000000004))
	assert.Equal(t, 1.3, round1(1.25))
}
