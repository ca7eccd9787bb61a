package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Layout Tree
// ---------------------------------------------------------------------------

// Kind identifies a worksheet family.
type Kind string

const (
	KindTables Kind = "tables"
	KindSums   Kind = "sums"
)

// Orientation is the page orientation in fpdf notation.
type Orientation string

const (
	Portrait  Orientation = "P"
	Landscape Orientation = "L"
)

// BlockKind selects how a block is drawn.
type BlockKind int

const (
	MultiplicationBlock BlockKind = iota
	DivisionBlock
	SumBlock
)

// Page geometry and block widths in mm.
const (
	a4Short    = 210.0
	a4Long     = 297.0
	pageMargin = 7.0

	multiplicationBlockWidth = 44.0
	divisionBlockWidth       = 2 * multiplicationBlockWidth
	sumBlockWidth            = 0.16 * (a4Short - 2*pageMargin)
)

// Document is a renderer-independent description of one sheet.
type Document struct {
	Kind        Kind
	Orientation Orientation
	Filename    string
	ShowAnswers bool
	Header      Header
	Blocks      []Block
}

// Header is the band printed above the blocks.
type Header struct {
	Name  string
	Title string
	Level string
	ID    string
	Date  string // empty when no date stamp is configured
}

// Block is one column of the grid: a table or a sum.
type Block struct {
	Kind     BlockKind
	Index    int      // 1-based position in the input
	Width    float64  // mm
	Rows     []Row    // tables
	Operands []string // sums
	Total    Answer   // sums
}

// Row is one question line of a table.
type Row struct {
	Question string
	Answers  []Answer
}

// Answer is a displayed result. An empty Value is a blank placeholder.
type Answer struct {
	Label string
	Value string
	Boxed bool
}

// String renders the row as plain text, e.g. "5 x 1 = 5" or
// "20 ÷ 10 Q=2 R=0".
func (r Row) String() string {
	parts := []string{r.Question}
	for _, a := range r.Answers {
		if s := a.Label + a.Value; s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Document Helpers
// ---------------------------------------------------------------------------

// worksheetID derives a stable reference number from the worksheet content.
// Format: MS-XXXXXXXX. Questions and answers sheets share it.
func worksheetID(kind Kind, w Worksheet) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00", kind, w.Title, w.Name, w.Level, w.Order, w.Operation)
	switch kind {
	case KindTables:
		for _, t := range w.Tables {
			fmt.Fprintf(h, "%s\x00%s\x00", t.Number, t.StartingNumber)
		}
	case KindSums:
		for _, s := range w.Sums {
			fmt.Fprintf(h, "%s\x00", s.Value)
		}
	}
	return "MS-" + strings.ToUpper(hex.EncodeToString(h.Sum(nil))[:8])
}

// formatDate formats a date as DD.MM.YYYY.
func formatDate(date time.Time) string {
	return date.Format("02.01.2006")
}

// rightAlign returns a string padded to align right within given width.
func rightAlign(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// outputFilename appends "-answers" to the answers variant.
func outputFilename(base string, showAnswers bool) string {
	if showAnswers {
		return base + "-answers.pdf"
	}
	return base + ".pdf"
}

func newHeader(kind Kind, w Worksheet, date string) Header {
	return Header{
		Name:  w.Name,
		Title: w.Title,
		Level: w.Level,
		ID:    worksheetID(kind, w),
		Date:  date,
	}
}

// ---------------------------------------------------------------------------
// Document Builders
// ---------------------------------------------------------------------------

// buildTablesDocument lays out one block per table, in input order. The
// worksheet must have passed validateTables.
func buildTablesDocument(w Worksheet, showAnswers bool, date string) (Document, error) {
	w = w.withDefaults()

	doc := Document{
		Kind:        KindTables,
		Orientation: Landscape,
		Filename:    outputFilename(string(w.Operation)+"-tables", showAnswers),
		ShowAnswers: showAnswers,
		Header:      newHeader(KindTables, w, date),
		Blocks:      make([]Block, 0, len(w.Tables)),
	}

	for i, t := range w.Tables {
		block, err := buildTableBlock(i+1, t, w.Order, w.Operation, showAnswers)
		if err != nil {
			return Document{}, fmt.Errorf("table %d: %w", i+1, err)
		}
		doc.Blocks = append(doc.Blocks, block)
	}

	return doc, nil
}

func buildTableBlock(index int, t TableSpec, order Order, op Operation, showAnswers bool) (Block, error) {
	number, err := parseNumber(t.Number)
	if err != nil {
		return Block{}, err
	}
	start, err := parseNumber(t.StartingNumber)
	if err != nil {
		return Block{}, err
	}

	block := Block{Index: index, Rows: make([]Row, 0, rowsPerTable)}
	switch op {
	case OperationDivision:
		block.Kind = DivisionBlock
		block.Width = divisionBlockWidth
	default:
		block.Kind = MultiplicationBlock
		block.Width = multiplicationBlockWidth
	}

	for _, operand := range sequence(start, order) {
		var row Row
		if block.Kind == DivisionBlock {
			row, err = buildDivisionRow(number, operand, showAnswers)
			if err != nil {
				return Block{}, err
			}
		} else {
			row = buildMultiplicationRow(number, operand, showAnswers)
		}
		block.Rows = append(block.Rows, row)
	}

	return block, nil
}

// buildMultiplicationRow creates "a x b = [answer]".
func buildMultiplicationRow(number, operand float64, showAnswers bool) Row {
	answer := Answer{}
	if showAnswers {
		answer.Value = formatNumber(number * operand)
	}
	return Row{
		Question: fmt.Sprintf("%s x %s =", formatNumber(number), formatNumber(operand)),
		Answers:  []Answer{answer},
	}
}

// buildDivisionRow creates "a ÷ b Q=[box] R=[box]".
func buildDivisionRow(number, operand float64, showAnswers bool) (Row, error) {
	q, r, err := divide(number, operand)
	if err != nil {
		return Row{}, fmt.Errorf("%s ÷ %s: %w", formatNumber(number), formatNumber(operand), err)
	}

	quotient := Answer{Label: "Q=", Boxed: true}
	remainder := Answer{Label: "R=", Boxed: true}
	if showAnswers {
		quotient.Value = formatNumber(q)
		remainder.Value = formatNumber(r)
	}

	return Row{
		Question: fmt.Sprintf("%s ÷ %s", formatNumber(number), formatNumber(operand)),
		Answers:  []Answer{quotient, remainder},
	}, nil
}

// buildSumsDocument lays out one block per sum row, in input order. The
// worksheet must have passed validateSums.
func buildSumsDocument(w Worksheet, showAnswers bool, date string) (Document, error) {
	w = w.withDefaults()

	doc := Document{
		Kind:        KindSums,
		Orientation: Portrait,
		Filename:    outputFilename("sums", showAnswers),
		ShowAnswers: showAnswers,
		Header:      newHeader(KindSums, w, date),
		Blocks:      make([]Block, 0, len(w.Sums)),
	}

	for i, s := range w.Sums {
		numbers, err := parseNumberList(s.Value)
		if err != nil {
			return Document{}, fmt.Errorf("sum %d: %w", i+1, err)
		}

		block := Block{
			Kind:     SumBlock,
			Index:    i + 1,
			Width:    sumBlockWidth,
			Operands: make([]string, len(numbers)),
			Total:    Answer{Boxed: true},
		}
		for j, n := range numbers {
			block.Operands[j] = formatNumber(n)
		}
		if showAnswers {
			block.Total.Value = formatFixed3(sum(numbers))
		}
		doc.Blocks = append(doc.Blocks, block)
	}

	return doc, nil
}

// ---------------------------------------------------------------------------
// Text Preview
// ---------------------------------------------------------------------------

const (
	lineSingle = "---------------------------------------------------------------------------"
	lineDouble = "==========================================================================="
)

// buildTextPreview renders the document as monospaced text.
func buildTextPreview(doc Document) string {
	var b strings.Builder

	b.WriteString(lineDouble + "\n")
	b.WriteString(fmt.Sprintf("Name:   %s\n", doc.Header.Name))
	b.WriteString(fmt.Sprintf("Title:  %s\n", doc.Header.Title))
	b.WriteString(fmt.Sprintf("Level:  %s\n", doc.Header.Level))
	b.WriteString(fmt.Sprintf("ID:     %s\n", doc.Header.ID))
	sheet := "questions"
	if doc.ShowAnswers {
		sheet = "answers"
	}
	b.WriteString(fmt.Sprintf("Sheet:  %s %s\n", doc.Kind, sheet))
	if doc.Header.Date != "" {
		b.WriteString(fmt.Sprintf("Date:   %s\n", doc.Header.Date))
	}
	b.WriteString(lineDouble + "\n")

	for _, block := range doc.Blocks {
		b.WriteString(fmt.Sprintf("\n%d)\n", block.Index))
		b.WriteString(lineSingle + "\n")
		if block.Kind == SumBlock {
			for _, op := range block.Operands {
				b.WriteString(rightAlign(op, 12) + "\n")
			}
			b.WriteString(rightAlign("------------", 12) + "\n")
			b.WriteString(rightAlign(block.Total.Value, 12) + "\n")
			continue
		}
		for _, row := range block.Rows {
			b.WriteString("  " + row.String() + "\n")
		}
	}

	return b.String()
}
