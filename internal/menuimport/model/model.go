package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field is one of the four canonical menu-item attributes a column can map to.
type Field string

const (
	FieldName        Field = "name"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
)

// Fields lists the canonical fields in detection order.
var Fields = []Field{FieldName, FieldCategory, FieldDescription, FieldPrice}

// ParseField accepts a canonical field name in any case.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// DetectionMethod records which mechanism produced a Mapping.
type DetectionMethod string

const (
	MethodSynonym DetectionMethod = "synonym"
	MethodAI      DetectionMethod = "ai"
	MethodHybrid  DetectionMethod = "hybrid"
	MethodManual  DetectionMethod = "manual"
)

// Mapping holds a zero-based column index per canonical field; nil = unresolved.
type Mapping struct {
	Name        *int `json:"name"`
	Category    *int `json:"category"`
	Description *int `json:"description"`
	Price       *int `json:"price"`
}

func (m *Mapping) slot(f Field) **int {
	switch f {
	case FieldName:
		return &m.Name
	case FieldCategory:
		return &m.Category
	case FieldDescription:
		return &m.Description
	case FieldPrice:
		return &m.Price
	}
	return nil
}

// Get returns the column index for f.
func (m Mapping) Get(f Field) (int, bool) {
	p := m.slot(f)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// Set points f at column idx.
func (m *Mapping) Set(f Field, idx int) {
	if p := m.slot(f); p != nil {
		v := idx
		*p = &v
	}
}

// Clear marks f unresolved.
func (m *Mapping) Clear(f Field) {
	if p := m.slot(f); p != nil {
		*p = nil
	}
}

// Resolved counts the fields that have a column.
func (m Mapping) Resolved() int {
	n := 0
	for _, f := range Fields {
		if _, ok := m.Get(f); ok {
			n++
		}
	}
	return n
}

// Missing lists unresolved fields in canonical order.
func (m Mapping) Missing() []Field {
	out := make([]Field, 0, len(Fields))
	for _, f := range Fields {
		if _, ok := m.Get(f); !ok {
			out = append(out, f)
		}
	}
	return out
}

// FieldAt reports which field, if any, already uses column idx.
func (m Mapping) FieldAt(idx int) (Field, bool) {
	for _, f := range Fields {
		if i, ok := m.Get(f); ok && i == idx {
			return f, true
		}
	}
	return "", false
}

// HeaderMatch is the per-header diagnostic trace of the synonym matcher.
type HeaderMatch struct {
	Header  string `json:"header"`
	Field   *Field `json:"field"`
	Ignored bool   `json:"ignored,omitempty"`
}

// ParsedRow is the canonical product record derived from one raw row.
type ParsedRow struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// MarshalJSON writes a non-finite price as a string ("+Inf", "NaN"),
// which encoding/json would otherwise reject.
func (p ParsedRow) MarshalJSON() ([]byte, error) {
	type plain ParsedRow
	if !math.IsNaN(p.Price) && !math.IsInf(p.Price, 0) {
		return json.Marshal(plain(p))
	}
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), strconv.FormatFloat(p.Price, 'f', -1, 64)})
}

type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// RowError ties validation messages to a data row (zero-based, header excluded).
type RowError struct {
	Row    int       `json:"row"`
	Data   ParsedRow `json:"data"`
	Errors []string  `json:"errors"`
}

type DetectionResult struct {
	Mapping         Mapping         `json:"mapping"`
	Headers         []string        `json:"headers"`
	PreviewData     []ParsedRow     `json:"previewData"`
	MissingFields   []Field         `json:"missingFields"`
	AllData         []RawRow        `json:"allData"`
	DetectionMethod DetectionMethod `json:"detectionMethod"`
	Matches         []HeaderMatch   `json:"matches,omitempty"`
}

// Category is a persisted menu category owned by a restaurant.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RestaurantID string `json:"restaurant_id"`
}

// CategoryKey is the case- and spacing-insensitive identity of a category name.
func CategoryKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NewProduct is the insert payload for one product.
type NewProduct struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CategoryID   *string `json:"category_id"`
	RestaurantID string  `json:"restaurant_id"`
}

// InsertedProduct is what the store returns for reconciliation.
type InsertedProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FailedRow struct {
	Row   int       `json:"row"`
	Error string    `json:"error"`
	Data  ParsedRow `json:"data"`
}

type UploadResult struct {
	Success    int         `json:"success"`
	Failed     int         `json:"failed"`
	FailedRows []FailedRow `json:"failedRows"`
}

// Preview returns at most n failed rows ordered by row index.
func (r UploadResult) Preview(n int) []FailedRow {
	rows := make([]FailedRow, 0, len(r.FailedRows))
	rows = append(rows, r.FailedRows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Row < rows[j].Row })
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
