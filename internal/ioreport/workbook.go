package ioreport

import (
	"strconv"

	"github.com/gnames/wdimodel/internal/iofs"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	colWidth     = 18
)

// writeWorkbook saves tables as sheets of one xlsx file. Numeric cells are
// stored as numbers.
func writeWorkbook(path string, tables []table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, v := range tables {
		if err := addSheet(f, i == 0, v); err != nil {
			return iofs.WriteFileError(path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return iofs.WriteFileError(path, err)
	}
	return nil
}

func addSheet(f *excelize.File, first bool, t table) error {
	var err error
	if first {
		err = f.SetSheetName(defaultSheet, t.name)
	} else {
		_, err = f.NewSheet(t.name)
	}
	if err != nil {
		return err
	}

	rows := t.rows()
	var cols int
	for i, row := range rows {
		cols = max(cols, len(row))
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(t.name, cell, cellValue(i, v)); err != nil {
				return err
			}
		}
	}
	if cols == 0 {
		return nil
	}

	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	return f.SetColWidth(t.name, "A", last, colWidth)
}

// cellValue keeps the header row as text.
func cellValue(row int, s string) any {
	if row == 0 {
		return s
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
