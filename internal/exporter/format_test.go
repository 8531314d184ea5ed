package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "positive integer", input: 123.0, expected: "123"},
		{name: "negative integer", input: -456.0, expected: "-456"},
		{name: "decimal", input: 123.456, expected: "123.456"},
		{name: "repeating mean", input: 10.0 / 3, expected: "3.3333333333333335"},
		{name: "large value", input: 1e21, expected: "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: ""},
		{name: "NaN", input: math.NaN(), expected: ""},
		{name: "string", input: "a@b.com", expected: "a@b.com"},
		{name: "float", input: 3.5, expected: "3.5"},
		{name: "int", input: 42, expected: "42"},
		{name: "int64", input: int64(-7), expected: "-7"},
		{name: "true", input: true, expected: "true"},
		{name: "false", input: false, expected: "false"},
		{name: "other", input: []int{1}, expected: "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.input))
		})
	}
}
