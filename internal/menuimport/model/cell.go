package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell is one spreadsheet value: absent, a string or a number.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
}

func Str(s string) Cell      { return Cell{Kind: CellString, Text: s} }
func Num(f float64) Cell     { return Cell{Kind: CellNumber, Num: f} }
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// IsBlank is true for absent cells and whitespace-only strings.
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellString && strings.TrimSpace(c.Text) == "")
}

func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return ""
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Text)
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return json.Marshal(c.String())
		}
		return json.Marshal(c.Num)
	}
	return []byte("null"), nil
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*c = Cell{}
	case float64:
		*c = Num(t)
	case string:
		*c = Str(t)
	default:
		*c = Str(string(b))
	}
	return nil
}

// RawRow is a data row aligned positionally with the header list.
type RawRow []Cell

// At never panics: out-of-range indices yield an empty cell.
func (r RawRow) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// Blank reports whether every cell is blank.
func (r RawRow) Blank() bool {
	for _, c := range r {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
