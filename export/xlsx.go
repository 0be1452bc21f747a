// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package export writes parse results to spreadsheet and JSON form.
package export

import (
	"fmt"

	xtract "github.com/sassoftware/viya-coa-xtract"
	"github.com/xuri/excelize/v2"
)

const (
	HeaderSheet = "Header"
	TestsSheet  = "Tests"
)

var testColumns = []string{"S.No.", "Test", "Result", "Specification"}

var columnWidths = []struct {
	sheet, start, end string
	width             float64
}{
	{HeaderSheet, "A", "A", 22},
	{HeaderSheet, "B", "B", 48},
	{TestsSheet, "A", "A", 8},
	{TestsSheet, "B", "B", 40},
	{TestsSheet, "C", "D", 32},
}

// XLSX renders res as a workbook with the header fields on one sheet
// and the test rows on another.
func XLSX(res *xtract.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// the default sheet becomes the header sheet
	if err := f.SetSheetName(f.GetSheetName(0), HeaderSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(TestsSheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}

	write := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	if err := write(HeaderSheet, 1, 1, "Field"); err != nil {
		return nil, err
	}
	if err := write(HeaderSheet, 2, 1, "Value"); err != nil {
		return nil, err
	}
	for i, k := range res.Fields.Keys() {
		v, _ := res.Fields.Get(k)
		if err := write(HeaderSheet, 1, i+2, k); err != nil {
			return nil, err
		}
		if err := write(HeaderSheet, 2, i+2, v); err != nil {
			return nil, err
		}
	}

	for i, h := range testColumns {
		if err := write(TestsSheet, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	for i, r := range res.Table.Rows() {
		for col, v := range []string{r.Serial, r.Test, r.Result, r.Specification} {
			if err := write(TestsSheet, col+1, i+2, v); err != nil {
				return nil, err
			}
		}
	}

	for _, w := range columnWidths {
		if err := f.SetColWidth(w.sheet, w.start, w.end, w.width); err != nil {
			return nil, fmt.Errorf("column width %s!%s:%s: %w", w.sheet, w.start, w.end, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
