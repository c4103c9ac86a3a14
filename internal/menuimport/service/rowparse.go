package service

import (
	"strings"

	"menu-upload-service/internal/menuimport/model"
	"menu-upload-service/internal/utils"
)

// ParseRow projects a raw row onto the canonical fields. Unmapped fields and
// indices past the end of the row yield "" or 0; it never panics.
func ParseRow(raw model.RawRow, m model.Mapping) model.ParsedRow {
	return model.ParsedRow{
		Name:        textField(raw, m, model.FieldName),
		Category:    textField(raw, m, model.FieldCategory),
		Description: textField(raw, m, model.FieldDescription),
		Price:       priceField(raw, m),
	}
}

// ParseRows parses every row in order.
func ParseRows(rows []model.RawRow, m model.Mapping) []model.ParsedRow {
	out := make([]model.ParsedRow, len(rows))
	for i, r := range rows {
		out[i] = ParseRow(r, m)
	}
	return out
}

func textField(raw model.RawRow, m model.Mapping, f model.Field) string {
	idx, ok := m.Get(f)
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw.At(idx).String())
}

func priceField(raw model.RawRow, m model.Mapping) float64 {
	idx, ok := m.Get(model.FieldPrice)
	if !ok {
		return 0
	}
	c := raw.At(idx)
	switch c.Kind {
	case model.CellNumber:
		return c.Num
	case model.CellString:
		if v, ok := utils.ParsePrice(c.Text); ok {
			return v
		}
	}
	return 0
}
