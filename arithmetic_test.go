package main

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		order    Order
		expected []float64
	}{
		{"straight from one", 1, OrderStraight, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"reverse from one", 1, OrderReverse, []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}},
		{"straight negative", -3, OrderStraight, []float64{-3, -2, -1, 0, 1, 2, 3, 4, 5, 6}},
		{"reverse fractional", 0.5, OrderReverse, []float64{9.5, 8.5, 7.5, 6.5, 5.5, 4.5, 3.5, 2.5, 1.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sequence(tt.start, tt.order)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("sequence(%v, %s) mismatch (-want +got):\n%s", tt.start, tt.order, diff)
			}
		})
	}
}

func TestSequenceReverseMirrorsStraight(t *testing.T) {
	for _, start := range []float64{-12, -0.25, 0, 1, 7, 12.75, 1000} {
		straight := sequence(start, OrderStraight)
		reverse := sequence(start, OrderReverse)

		if len(straight) != rowsPerTable || len(reverse) != rowsPerTable {
			t.Fatalf("sequence(%v) lengths = %d, %d, want %d", start, len(straight), len(reverse), rowsPerTable)
		}

		slices.Reverse(straight)
		if diff := cmp.Diff(straight, reverse); diff != "" {
			t.Errorf("reverse(sequence(%v, straight)) != sequence(%v, reverse):\n%s", start, start, diff)
		}
	}
}

func TestDivide(t *testing.T) {
	tests := []struct {
		name      string
		n, d      float64
		quotient  float64
		remainder float64
	}{
		{"exact", 20, 10, 2, 0},
		{"with remainder", 20, 3, 6, 2},
		{"divisor larger", 3, 7, 0, 3},
		{"negative dividend", -7, 2, -4, 1},
		{"negative divisor", 7, -2, -4, -1},
		{"fractional", 7.5, 2, 3, 1.5},
		{"zero dividend", 0, 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, r, err := divide(tt.n, tt.d)
			if err != nil {
				t.Fatalf("divide(%v, %v) error = %v", tt.n, tt.d, err)
			}
			if q != tt.quotient || r != tt.remainder {
				t.Errorf("divide(%v, %v) = (%v, %v), want (%v, %v)", tt.n, tt.d, q, r, tt.quotient, tt.remainder)
			}
			if q*tt.d+r != tt.n {
				t.Errorf("divide(%v, %v): %v*%v + %v != %v", tt.n, tt.d, q, tt.d, r, tt.n)
			}
		})
	}
}

func TestDivideRoundTrip(t *testing.T) {
	for n := -25.0; n <= 25; n++ {
		for _, d := range sequence(1, OrderStraight) {
			q, r, err := divide(n, d)
			if err != nil {
				t.Fatalf("divide(%v, %v) error = %v", n, d, err)
			}
			if q != math.Floor(n/d) {
				t.Errorf("divide(%v, %v) quotient = %v, want %v", n, d, q, math.Floor(n/d))
			}
			if q*d+r != n {
				t.Errorf("divide(%v, %v): %v*%v + %v != %v", n, d, q, d, r, n)
			}
		}
	}
}

func TestDivideByZero(t *testing.T) {
	_, _, err := divide(5, 0)
	if !errors.Is(err, errDivisionByZero) {
		t.Errorf("divide(5, 0) error = %v, want errDivisionByZero", err)
	}
}

func TestSum(t *testing.T) {
	got := sum([]float64{2, -2, 12, -27})
	if got != -15 {
		t.Errorf("sum = %v, want -15", got)
	}
	if got := sum(nil); got != 0 {
		t.Errorf("sum(nil) = %v, want 0", got)
	}
}

func TestFormatNumber(t *testing.T) {
	// Added at run time so the float64 rounding error survives.
	tenth, fifth := 0.1, 0.2

	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"integer", 5, "5"},
		{"negative", -27, "-27"},
		{"fraction", 2.5, "2.5"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"float artefact", tenth + fifth, "0.30000000000000004"},
		{"overflow", 1e200 * fifth * 1e200, "Infinity"},
		{"negative overflow", -1e200 * fifth * 1e200, "-Infinity"},
		{"not a number", math.NaN(), "NaN"},
		{"large", 1e21, "1000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatNumber(tt.value)
			if got != tt.expected {
				t.Errorf("formatNumber(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestFormatFixed3(t *testing.T) {
	tenth, fifth := 0.1, 0.2

	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"zero", 0, "0.000"},
		{"negative integer", -15, "-15.000"},
		{"pads decimals", 2.5, "2.500"},
		{"rounds up", 1234.5678, "1234.568"},
		{"rounds down", tenth + fifth, "0.300"},
		{"exact tie rounds away from zero", 0.0625, "0.063"},
		{"negative tie rounds away from zero", -0.0625, "-0.063"},
		{"binary value below tie", 1.0005, "1.000"},
		{"small negative keeps sign", -0.0001, "-0.000"},
		{"negative zero", math.Copysign(0, -1), "0.000"},
		{"infinity", math.Inf(1), "Infinity"},
		{"negative infinity", math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatFixed3(tt.value)
			if got != tt.expected {
				t.Errorf("formatFixed3(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}
