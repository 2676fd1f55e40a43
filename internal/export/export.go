// Package export serializes merged rows into the reviewed-and-delivered
// spreadsheet artifact.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/seminarops/rollcall/internal/merge"
)

// Variant selects the exported column set.
type Variant string

const (
	// VariantMinimal is the legacy hand-off layout: title, seniority,
	// question, name.
	VariantMinimal Variant = "minimal"
	// VariantFull carries every merged field including date, topic, and the
	// identity match score.
	VariantFull Variant = "full"
)

const sheetName = "整合結果"

// Workbook builds an xlsx workbook for the rows and returns its bytes.
func Workbook(rows []merge.Row, variant Variant) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	table := [][]interface{}{header(variant)}
	for _, r := range rows {
		table = append(table, record(r, variant))
	}
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func header(variant Variant) []interface{} {
	if variant == VariantMinimal {
		return []interface{}{"工作職稱", "工作年資", "提問內容", "姓名"}
	}
	return []interface{}{"姓名", "工作職稱", "工作年資", "提問內容", "日期", "主題", "相似度"}
}

func record(r merge.Row, variant Variant) []interface{} {
	if variant == VariantMinimal {
		return []interface{}{r.Title, r.Seniority, r.Question, r.Name}
	}
	return []interface{}{r.Name, r.Title, r.Seniority, r.Question, r.Date, r.Topic, r.MatchScore}
}
