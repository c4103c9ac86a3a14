package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"menu-upload-service/internal/menuimport/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV reads delimited text, auto-detecting the charset and converting to UTF-8.
// Cells stay strings; padding added later is the only source of empty cells.
func readCSV(r io.Reader) ([]model.RawRow, error) {
	br := bufio.NewReaderSize(r, 64<<10)

	peek, _ := br.Peek(4096)
	bom := bytes.HasPrefix(peek, utf8BOM)
	if bom {
		peek = peek[len(utf8BOM):]
	}
	enc := detectEncoding(peek)
	comma := sniffDelimiter(peek)
	if bom {
		_, _ = br.Discard(len(utf8BOM))
	}

	var dec io.Reader = br
	if enc != nil {
		dec = transform.NewReader(br, enc.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = comma

	var rows []model.RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		row := make(model.RawRow, len(rec))
		for i, v := range rec {
			row[i] = model.Str(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectEncoding returns nil for UTF-8 input.
func detectEncoding(peek []byte) encoding.Encoding {
	if len(peek) == 0 || validUTF8Prefix(peek) {
		return nil
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return nil
	}
	switch strings.ToLower(det.Charset) {
	case "windows-1250":
		return charmap.Windows1250
	case "windows-1251", "cp1251":
		return charmap.Windows1251
	case "windows-1252":
		return charmap.Windows1252
	case "iso-8859-1":
		return charmap.ISO8859_1
	case "iso-8859-2":
		return charmap.ISO8859_2
	case "iso-8859-5":
		return charmap.ISO8859_5
	case "koi8-r":
		return charmap.KOI8R
	}
	return nil
}

// validUTF8Prefix tolerates a rune cut off by the peek window.
func validUTF8Prefix(b []byte) bool {
	for cut := 0; cut < utf8.UTFMax && cut < len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}
	return false
}

// sniffDelimiter looks at the header line: spreadsheet exports in
// comma-decimal locales use ';'.
func sniffDelimiter(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
