package fileio

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	excelize "github.com/xuri/excelize/v2"

	"menu-upload-service/internal/menuimport/model"
)

// readXLSX reads the first worksheet with raw values, keeping numbers numeric.
func readXLSX(r io.Reader) ([]model.RawRow, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	out := make([]model.RawRow, len(rows))
	for i, rec := range rows {
		row := make(model.RawRow, len(rec))
		for j, v := range rec {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, _ := f.GetCellType(sheet, axis)
			row[j] = xlsxCell(v, typ)
		}
		out[i] = row
	}
	return out, nil
}

func xlsxCell(v string, typ excelize.CellType) model.Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError, excelize.CellTypeDate:
		return model.Str(v)
	case excelize.CellTypeBool:
		if v == "1" {
			return model.Str("TRUE")
		}
		return model.Str("FALSE")
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return model.Num(f)
	}
	return model.Str(v)
}
