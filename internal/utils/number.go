package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d.,\-]`)

// ParsePrice parses "12,50", "1 234,50", "1.234,50", "1,234.50", "12.50 lei", "$9"
// and "(5)" as -5. The last separator followed by anything other than exactly three
// digits is the decimal point; every other separator groups thousands.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	repl := strings.NewReplacer("\u00A0", "", "\u2009", "", "\u202F", "", " ", "", "\t", "", "'", "")
	s = rxKeepNums.ReplaceAllString(repl.Replace(s), "")
	if s == "" || s == "-" {
		return 0, false
	}

	s = normalizeSeparators(s)
	if s == "" || s == "." || s == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return decimalOrGrouping(s, ",")
	case lastDot >= 0:
		return decimalOrGrouping(s, ".")
	}
	return s
}

// decimalOrGrouping handles strings that carry only one kind of separator.
func decimalOrGrouping(s, sep string) string {
	n := strings.Count(s, sep)
	if n > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	i := strings.Index(s, sep)
	head, tail := s[:i], s[i+1:]
	if len(tail) == 3 && head != "" && head != "-" && head != "0" {
		return head + tail
	}
	return head + "." + tail
}
