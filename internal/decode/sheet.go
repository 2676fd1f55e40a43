package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/seminarops/rollcall/internal/textutil"
)

// ErrUnsupportedFormat reports a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SheetRows reads the first sheet of an xlsx file or a csv file into one map
// per data row, keyed by the lowercased header row. Missing cells map to "".
func SheetRows(buf []byte, filename string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return xlsxRows(buf)
	case ".csv":
		return csvRows(buf)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func xlsxRows(buf []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("xlsx decode: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx read sheet %s: %w", sheets[0], err)
	}
	return keyed(rows), nil
}

func csvRows(buf []byte) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(buf))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv decode: %w", err)
	}
	return keyed(records), nil
}

// keyed converts a header row plus data rows into maps. Header cells are
// normalized and lowercased so column-synonym matching is trivial downstream.
func keyed(rows [][]string) []map[string]string {
	if len(rows) < 2 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(textutil.Normalize(h))
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				m[h] = row[i]
			} else {
				m[h] = ""
			}
		}
		out = append(out, m)
	}
	return out
}
