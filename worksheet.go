package main

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ---------------------------------------------------------------------------
// Worksheet Input
// ---------------------------------------------------------------------------

// Order controls whether a table counts up or down.
type Order string

const (
	OrderStraight Order = "straight"
	OrderReverse  Order = "reverse"
)

// Operation selects the arithmetic drilled by every table of a worksheet.
type Operation string

const (
	OperationMultiplication Operation = "multiplication"
	OperationDivision       Operation = "division"
)

// WorksheetMeta is printed in the header band of every sheet.
type WorksheetMeta struct {
	Title string `yaml:"title" validate:"required,max=100"`
	Name  string `yaml:"name" validate:"required"`
	Level string `yaml:"level" validate:"required"`
}

// TableSpec describes one table column: a fixed operand and the first
// value of the generated sequence.
type TableSpec struct {
	Number         string `yaml:"number" validate:"required,finite"`
	StartingNumber string `yaml:"startingNumber" validate:"required,finite"`
}

// SumSpec is one comma-separated column of numbers to add up.
type SumSpec struct {
	Value string `yaml:"value" validate:"required,numberlist"`
}

// Worksheet is the whole input record. Order and Operation apply to every
// table.
type Worksheet struct {
	WorksheetMeta `yaml:",inline"`

	Order     Order       `yaml:"order" validate:"omitempty,oneof=straight reverse"`
	Operation Operation   `yaml:"operation" validate:"omitempty,oneof=multiplication division"`
	Tables    []TableSpec `yaml:"tables" validate:"dive"`
	Sums      []SumSpec   `yaml:"sums" validate:"dive"`
}

// withDefaults fills in the worksheet-wide modes when they were omitted.
func (w Worksheet) withDefaults() Worksheet {
	if w.Order == "" {
		w.Order = OrderStraight
	}
	if w.Operation == "" {
		w.Operation = OperationMultiplication
	}
	return w
}

// ---------------------------------------------------------------------------
// Number Parsing
// ---------------------------------------------------------------------------

var (
	decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixedInt   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// parseNumber parses a trimmed number: a signed decimal with optional
// exponent, or an unsigned 0x, 0o or 0b integer. Empty strings, NaN and
// infinities are rejected, as are Go-only forms like hex floats and
// underscores.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty number")
	}

	var f float64
	switch {
	case decimalNumber.MatchString(s):
		var err error
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", s, err)
		}
	case prefixedInt.MatchString(s):
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		f, _ = new(big.Float).SetInt(n).Float64()
	default:
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q: not finite", s)
	}
	return f, nil
}

// parseNumberList parses a comma-separated list such as "2, -2, 12 ,-27".
func parseNumberList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	numbers := make([]float64, 0, len(parts))
	for i, p := range parts {
		f, err := parseNumber(p)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		numbers = append(numbers, f)
	}
	return numbers, nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// FieldError reports one invalid input field.
type FieldError struct {
	Field   string // input path, e.g. "tables.0.startingNumber"
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "invalid worksheet: " + strings.Join(msgs, "; ")
}

// fieldMessages maps "<field>.<rule>" to the message shown for it.
var fieldMessages = map[string]string{
	"title.required":          "Please enter a title",
	"title.max":               "Title must be less than 100 characters",
	"name.required":           "Please enter a name",
	"level.required":          "Please enter a level",
	"order.oneof":             "Order must be straight or reverse",
	"operation.oneof":         "Operation must be multiplication or division",
	"number.required":         "Please enter a number",
	"number.finite":           "Please enter a valid number",
	"startingNumber.required": "Please enter a starting number",
	"startingNumber.finite":   "Please enter a valid number",
	"value.required":          "Please enter a value",
	"value.numberlist":        "Please enter valid numbers (comma separated)",
}

const (
	zeroDivisorMessage     = "Starting number must keep every divisor non-zero"
	tooManyOperandsMessage = "Please enter at most %d numbers"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their input names rather than Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		return name
	})

	rules := map[string]validator.Func{
		"finite": func(fl validator.FieldLevel) bool {
			_, err := parseNumber(fl.Field().String())
			return err == nil
		},
		"numberlist": func(fl validator.FieldLevel) bool {
			_, err := parseNumberList(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

// fieldPath turns a validator namespace such as
// "Worksheet.WorksheetMeta.title" or "Worksheet.tables[0].number" into
// "title" and "tables.0.number". Segments that still carry a Go type name
// (the root and inlined structs) are dropped.
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	path := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || unicode.IsUpper([]rune(seg)[0]) {
			continue
		}
		seg = strings.ReplaceAll(seg, "[", ".")
		seg = strings.ReplaceAll(seg, "]", "")
		path = append(path, seg)
	}
	return strings.Join(path, ".")
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}

// validateWorksheet runs the struct rules and converts failures into a
// *ValidationError.
func validateWorksheet(w Worksheet) error {
	err := validate.Struct(w)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating worksheet: %w", err)
	}

	ve := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return ve
}

// validateTables checks the header fields, the modes and every table.
// Sum rows are ignored. Division tables whose sequence reaches zero are
// rejected.
func validateTables(w Worksheet) error {
	w = w.withDefaults()
	w.Sums = nil

	if err := validateWorksheet(w); err != nil {
		return err
	}
	if w.Operation != OperationDivision {
		return nil
	}

	var fields []FieldError
	for i, t := range w.Tables {
		start, _ := parseNumber(t.StartingNumber)
		for _, d := range sequence(start, w.Order) {
			if d == 0 {
				fields = append(fields, FieldError{
					Field:   fmt.Sprintf("tables.%d.startingNumber", i),
					Message: zeroDivisorMessage,
				})
				break
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateSums checks the header fields and every sum row. Tables are
// ignored. Rows longer than one page column are rejected.
func validateSums(w Worksheet) error {
	w = w.withDefaults()
	w.Tables = nil

	if err := validateWorksheet(w); err != nil {
		return err
	}

	var fields []FieldError
	for i, s := range w.Sums {
		if n := strings.Count(s.Value, ",") + 1; n > maxSumOperands {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("sums.%d.value", i),
				Message: fmt.Sprintf(tooManyOperandsMessage, maxSumOperands),
			})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
