package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadSheetHeaders reads just the header row of the first sheet. A file
// excelize cannot open is a user error, not server state.
func ReadSheetHeaders(path string) ([]string, error) {
	headers, _, err := readSheet(path, true)
	return headers, err
}

// ReadSheetRows returns the header row and all data rows of the first
// sheet, in file order. Rows may be ragged; callers index defensively.
func ReadSheetRows(path string) ([]string, [][]string, error) {
	return readSheet(path, false)
}

func readSheet(path string, headersOnly bool) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("spreadsheet has no header row")
	}

	headers := rows[0]
	if headersOnly {
		return headers, nil, nil
	}

	return headers, rows[1:], nil
}
