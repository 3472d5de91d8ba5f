package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: 12.5, want: 12.5, ok: true},
		{in: "101.25", want: 101.25, ok: true},
		{in: " 7 ", want: 7, ok: true},
		{in: json.Number("3.5"), want: 3.5, ok: true},
		{in: "n/a", ok: false},
		{in: "NaN", ok: false},
		{in: nil, ok: false},
		{in: true, ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("x", 5))
	assert.Equal(t, 42, ParseIntDefault("42", 5))
}
