// .xls parser: the table width is fixed up front and every cell is read up to it.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	xls "github.com/extrame/xls"

	"menu-upload-service/internal/menuimport/model"
)

// computeMaxCols probes a bounded number of columns on every row;
// Row.LastCol() is unreliable for files written by older POS exports.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 256
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := probeMax - 1; j >= maxCols; j-- {
			if normalizeCell(r.Col(j)) != "" {
				maxCols = j + 1
				break
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader) (rows []model.RawRow, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// the decoder panics on some truncated streams
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, fmt.Errorf("xls: corrupt workbook: %v", rec)
		}
	}()

	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"utf-8", "windows-1250", "windows-1251"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("failed to open workbook")
		}
		return nil, fmt.Errorf("xls: %w", lastErr)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	maxCols := computeMaxCols(sheet)
	rows = make([]model.RawRow, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make(model.RawRow, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = textCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
