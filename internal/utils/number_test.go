package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"12.5", 12.5, true},
		{"12,50", 12.5, true},
		{"1 234,50", 1234.5, true},
		{"1\u00A0234,50", 1234.5, true},
		{"1.234,50", 1234.5, true},
		{"1,234.50", 1234.5, true},
		{"1,234", 1234, true},
		{"1.234.567", 1234567, true},
		{"0.125", 0.125, true},
		{"12.50 lei", 12.5, true},
		{"$9", 9, true},
		{"(5)", -5, true},
		{"-3,5", -3.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
