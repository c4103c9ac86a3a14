package service

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"menu-upload-service/internal/menuimport/model"
)

func fullMapping() model.Mapping {
	var m model.Mapping
	m.Set(model.FieldName, 0)
	m.Set(model.FieldCategory, 1)
	m.Set(model.FieldDescription, 2)
	m.Set(model.FieldPrice, 3)
	return m
}

func TestParseRow_RoundTrip(t *testing.T) {
	raw := model.RawRow{model.Str("Pizza"), model.Str("Mains"), model.Str("Cheese"), model.Num(10.5)}
	got := ParseRow(raw, fullMapping())
	assert.Equal(t, model.ParsedRow{Name: "Pizza", Category: "Mains", Description: "Cheese", Price: 10.5}, got)

	// numbers in text columns are stringified, prices in text are parsed
	raw = model.RawRow{model.Num(42), model.Str("Drinks"), model.Cell{}, model.Str("12,50")}
	got = ParseRow(raw, fullMapping())
	assert.Equal(t, model.ParsedRow{Name: "42", Category: "Drinks", Price: 12.5}, got)
}

func TestParseRow_ShortRowAndMissingMapping(t *testing.T) {
	var m model.Mapping
	m.Set(model.FieldName, 0)
	m.Set(model.FieldPrice, 7)

	assert.NotPanics(t, func() {
		got := ParseRow(model.RawRow{model.Str("Tea")}, m)
		assert.Equal(t, model.ParsedRow{Name: "Tea"}, got)
	})
	assert.Equal(t, model.ParsedRow{}, ParseRow(nil, model.Mapping{}))
	assert.Equal(t, model.ParsedRow{}, ParseRow(model.RawRow{model.Str("x")}, model.Mapping{}))
}

func TestParseRow_UnparseablePrice(t *testing.T) {
	got := ParseRow(model.RawRow{model.Str("Tea"), model.Cell{}, model.Cell{}, model.Str("free")}, fullMapping())
	assert.Zero(t, got.Price)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		row  model.ParsedRow
		want []string
	}{
		{"valid", model.ParsedRow{Name: "Valid Item", Price: 12.5}, []string{}},
		{"short name and zero price", model.ParsedRow{Name: "A", Price: 0}, []string{MsgNameTooShort, MsgPriceNotPositive}},
		{"blank name", model.ParsedRow{Name: "   ", Price: 3}, []string{MsgNameRequired}},
		{"negative price", model.ParsedRow{Name: "Soup", Price: -1}, []string{MsgPriceNotPositive}},
		{"nan price", model.ParsedRow{Name: "Soup", Price: math.NaN()}, []string{MsgPriceNotPositive, MsgPriceInvalid}},
		{"infinite price", model.ParsedRow{Name: "Soup", Price: math.Inf(1)}, []string{MsgPriceInvalid}},
		{"too expensive", model.ParsedRow{Name: "Soup", Price: 1_000_000}, []string{MsgPriceTooHigh}},
		{"max price ok", model.ParsedRow{Name: "Soup", Price: MaxPrice}, []string{}},
		{"long description", model.ParsedRow{Name: "Soup", Price: 1, Description: strings.Repeat("ă", 501)}, []string{MsgDescTooLong}},
		{"description at limit", model.ParsedRow{Name: "Soup", Price: 1, Description: strings.Repeat("ă", 500)}, []string{}},
		{"everything wrong", model.ParsedRow{Name: "", Price: 0, Description: strings.Repeat("x", 600)}, []string{MsgNameRequired, MsgPriceNotPositive, MsgDescTooLong}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.row)
			assert.Equal(t, tt.want, got.Errors)
			assert.Equal(t, len(tt.want) == 0, got.IsValid)
		})
	}
}

func TestPartition(t *testing.T) {
	rows := []model.ParsedRow{
		{Name: "Soup", Price: 5},
		{Name: "X", Price: 5},
		{Name: "Tea", Price: 2},
	}
	valid, index, invalid := Partition(rows)
	assert.Equal(t, []model.ParsedRow{rows[0], rows[2]}, valid)
	assert.Equal(t, []int{0, 2}, index)
	if assert.Len(t, invalid, 1) {
		assert.Equal(t, 1, invalid[0].Row)
		assert.Equal(t, []string{MsgNameTooShort}, invalid[0].Errors)
	}
}
