package dataset

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/roadwatch/accident-insight/internal/domain"
)

// readXLSX reads the first sheet of an xlsx workbook through the same
// header-mapped row parser as the CSV path. Spreadsheet sources carry no
// byte encoding problem, so there is no fallback chain here.
func (l *Loader) readXLSX() ([]domain.AccidentRecord, int, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, 0, errors.Join(ErrDataUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, errors.Join(ErrDataUnavailable, errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	records, skipped, err := recordsFromRows(rows)
	if err != nil {
		return nil, 0, errors.Join(ErrDataUnavailable, err)
	}
	return records, skipped, nil
}
