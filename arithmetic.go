package main

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Sequence Generation
// ---------------------------------------------------------------------------

// rowsPerTable is the number of rows every table yields.
const rowsPerTable = 10

// sequence returns the second operand of each table row. Straight order
// counts up from start, reverse order counts down from start+9 to start.
func sequence(start float64, order Order) []float64 {
	seq := make([]float64, rowsPerTable)
	for i := range seq {
		if order == OrderReverse {
			seq[i] = start + float64(rowsPerTable-1-i)
		} else {
			seq[i] = start + float64(i)
		}
	}
	return seq
}

// ---------------------------------------------------------------------------
// Answers
// ---------------------------------------------------------------------------

var errDivisionByZero = errors.New("division by zero")

// divide returns the floored quotient and the matching remainder, so that
// quotient*d + remainder == n.
func divide(n, d float64) (quotient, remainder float64, err error) {
	if d == 0 {
		return 0, 0, errDivisionByZero
	}
	quotient = math.Floor(n / d)
	remainder = n - quotient*d
	return quotient, remainder, nil
}

// sum adds the numbers in input order.
func sum(numbers []float64) float64 {
	var total float64
	for _, n := range numbers {
		total += n
	}
	return total
}

// ---------------------------------------------------------------------------
// Number Formatting
// ---------------------------------------------------------------------------

// formatNumber prints the shortest decimal form of f, without exponent.
// Products of finite inputs can still overflow, which prints as Infinity.
func formatNumber(f float64) string {
	if s, ok := formatNonFinite(f); ok {
		return s
	}
	if f == 0 {
		// Drops the sign of negative zero.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFixed3 prints f with exactly three decimals. Ties on the exact
// binary value round away from zero, and negative inputs keep their sign
// even when they round to zero.
func formatFixed3(f float64) string {
	if s, ok := formatNonFinite(f); ok {
		return s
	}
	neg := f < 0
	r := new(big.Rat).SetFloat64(math.Abs(f))
	r.Mul(r, big.NewRat(1000, 1))
	r.Add(r, big.NewRat(1, 2))

	// Floor of the scaled value.
	scaled := new(big.Int).Quo(r.Num(), r.Denom())

	digits := scaled.String()
	if len(digits) < 4 {
		digits = strings.Repeat("0", 4-len(digits)) + digits
	}
	out := digits[:len(digits)-3] + "." + digits[len(digits)-3:]
	if neg {
		out = "-" + out
	}
	return out
}

func formatNonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "Infinity", true
	case math.IsInf(f, -1):
		return "-Infinity", true
	}
	return "", false
}
