package officebatch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadDataFile reads the input table, choosing the parser by extension:
// .csv is read as CSV, anything else is handed to the XLSX reader. Headers
// and cell values come back whitespace-trimmed; empty cells are "".
func ReadDataFile(path, sheet string) (*DataSet, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(path)
	}
	return readXLSX(path, sheet)
}

func readCSV(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return &DataSet{}, nil
	}
	return buildDataSet(records), nil
}

func readXLSX(path, sheet string) (*DataSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(records) == 0 {
		return &DataSet{}, nil
	}
	return buildDataSet(records), nil
}

// resolveSheet interprets the sheet selector as a name, or as a zero-based
// index when it parses as a number. Empty selects the first sheet.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		return f.GetSheetName(0), nil
	}
	if idx, err := strconv.Atoi(sheet); err == nil {
		name := f.GetSheetName(idx)
		if name == "" {
			return "", fmt.Errorf("sheet index %d out of range", idx)
		}
		return name, nil
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return "", fmt.Errorf("sheet %q not found", sheet)
	}
	return sheet, nil
}

// buildDataSet turns a header row plus data records into a DataSet,
// trimming headers and values and padding short records.
func buildDataSet(records [][]string) *DataSet {
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	ds := &DataSet{Columns: headers}
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, col := range headers {
			if col == "" {
				continue
			}
			val := ""
			if i < len(record) {
				val = strings.TrimSpace(record[i])
			}
			row[col] = val
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}
