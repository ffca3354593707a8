// Package export renders the filtered, enriched view into downloadable
// formats: CSV for spreadsheets, an xlsx workbook, and a PNG chart.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/roadwatch/accident-insight/internal/domain"
)

// viewHeader is the translated column header of the downloadable view.
var viewHeader = []string{"지역", "위치", "유형", "사고건수", "제안 개선안", "예상 감소수"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the enriched view as UTF-8 CSV, prefixed with a byte-order
// marker so common spreadsheet tools detect the encoding. Predicted
// reduction is rounded to one decimal place.
func WriteCSV(w io.Writer, rows []domain.DerivedRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(viewHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Region,
			r.Location,
			r.Type,
			strconv.Itoa(r.Accidents),
			r.Strategy,
			strconv.FormatFloat(r.PredictedReduction, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
