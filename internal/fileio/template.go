package fileio

import (
	"encoding/csv"
	"io"
	"strconv"

	excelize "github.com/xuri/excelize/v2"
)

// TemplateHeaders is the header row the column detector is tuned against.
var TemplateHeaders = []string{"Product Name", "Category", "Description", "Price"}

type templateRow struct {
	name, category, description string
	price                       float64
}

var templateSamples = []templateRow{
	{"Margherita Pizza", "Pizza", "Tomato sauce, mozzarella, fresh basil", 32.5},
	{"Caesar Salad", "Salads", "Romaine, parmesan, croutons, caesar dressing", 27},
	{"Tiramisu", "Desserts", "", 18},
	{"Lemonade", "Drinks", "Fresh lemon, mint, sparkling water", 12},
}

const templateSheet = "Menu"

// WriteTemplateXLSX writes a one-sheet workbook with the header row and sample rows.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, h := range TemplateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(templateSheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(templateSheet, cell, cell, headerStyle); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(templateSheet, col, col, 28)
	}

	for r, s := range templateSamples {
		vals := []any{s.name, s.category, s.description, s.price}
		for c, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(templateSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// WriteTemplateCSV writes the same content as comma-separated text.
func WriteTemplateCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateHeaders); err != nil {
		return err
	}
	for _, s := range templateSamples {
		rec := []string{s.name, s.category, s.description, strconv.FormatFloat(s.price, 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
