package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"menu-upload-service/internal/menuimport/model"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoHeader        = errors.New("file has no header row")
)

// Sheet is the first worksheet (or the whole CSV) split into headers and data rows.
// Data rows are padded with empty cells up to the header width; blank rows are dropped.
type Sheet struct {
	Headers []string
	Rows    []model.RawRow
}

// Supported reports whether filename has an extension ReadSheet understands.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xls", ".xlsx":
		return true
	}
	return false
}

// ReadSheet picks a parser by extension. headerRow is 1-based.
func ReadSheet(r io.Reader, filename string, headerRow int) (*Sheet, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	var (
		rows []model.RawRow
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, filename)
	}
	if err != nil {
		return nil, err
	}
	return assemble(rows, headerRow)
}

func assemble(rows []model.RawRow, headerRow int) (*Sheet, error) {
	idx := headerRow - 1
	if idx >= len(rows) || rows[idx].Blank() {
		return nil, ErrNoHeader
	}
	headers := pickHeader(rows[idx])
	return &Sheet{Headers: headers, Rows: dataRows(rows[idx+1:], len(headers))}, nil
}

// pickHeader stringifies the header row and names empty cells "Column N".
// Trailing empty header cells are dropped.
func pickHeader(row model.RawRow) []string {
	last := len(row) - 1
	for last >= 0 && row[last].IsBlank() {
		last--
	}
	out := make([]string, last+1)
	for i := 0; i <= last; i++ {
		v := strings.TrimSpace(row[i].String())
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

func dataRows(rows []model.RawRow, width int) []model.RawRow {
	out := make([]model.RawRow, 0, len(rows))
	for _, rec := range rows {
		if rec.Blank() {
			continue
		}
		if len(rec) < width {
			padded := make(model.RawRow, width)
			copy(padded, rec)
			rec = padded
		}
		out = append(out, rec)
	}
	return out
}

// normalizeCell trims and folds NBSP-like spaces.
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u2009", " ", "\u202F", " ").Replace(s)
	return strings.TrimSpace(s)
}

// plainDecimal is the only text coerced to a number: no exponent, hex,
// inf/nan spellings, or leading zeros ("007" stays a code).
var plainDecimal = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// textCell coerces a formatted cell: plain decimal text becomes a number.
func textCell(s string) model.Cell {
	s = normalizeCell(s)
	if s == "" {
		return model.Cell{}
	}
	if plainDecimal.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return model.Num(f)
		}
	}
	return model.Str(s)
}
