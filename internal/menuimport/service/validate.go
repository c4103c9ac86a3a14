package service

import (
	"math"
	"strings"
	"unicode/utf8"

	"menu-upload-service/internal/menuimport/model"
)

const (
	MinNameLen     = 2
	MaxPrice       = 999_999
	MaxDescription = 500
)

const (
	MsgNameRequired     = "Product name is required"
	MsgNameTooShort     = "Product name must be at least 2 characters"
	MsgPriceNotPositive = "Price must be greater than 0"
	MsgPriceInvalid     = "Price must be a valid number"
	MsgPriceTooHigh     = "Price must not exceed 999,999"
	MsgDescTooLong      = "Description must not exceed 500 characters"
)

// Validate reports every failing rule, in a fixed order: name, price, description.
func Validate(row model.ParsedRow) model.ValidationResult {
	errs := make([]string, 0, 2)

	name := strings.TrimSpace(row.Name)
	switch {
	case name == "":
		errs = append(errs, MsgNameRequired)
	case utf8.RuneCountInString(name) < MinNameLen:
		errs = append(errs, MsgNameTooShort)
	}

	if !(row.Price > 0) {
		errs = append(errs, MsgPriceNotPositive)
	}
	if math.IsNaN(row.Price) || math.IsInf(row.Price, 0) {
		errs = append(errs, MsgPriceInvalid)
	} else if row.Price > MaxPrice {
		errs = append(errs, MsgPriceTooHigh)
	}

	if desc := strings.TrimSpace(row.Description); utf8.RuneCountInString(desc) > MaxDescription {
		errs = append(errs, MsgDescTooLong)
	}

	return model.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Partition splits parsed rows into valid rows and per-row validation errors.
// valid[i] came from rows[index[i]].
func Partition(rows []model.ParsedRow) (valid []model.ParsedRow, index []int, invalid []model.RowError) {
	for i, r := range rows {
		v := Validate(r)
		if v.IsValid {
			valid = append(valid, r)
			index = append(index, i)
			continue
		}
		invalid = append(invalid, model.RowError{Row: i, Data: r, Errors: v.Errors})
	}
	return valid, index, invalid
}
