package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/barcode"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ---------------------------------------------------------------------------
// PDF Generation
// ---------------------------------------------------------------------------

const (
	pdfFontFamily     = "Helvetica"
	pdfHeaderFontSize = 15
	pdfMetaFontSize   = 9
	pdfRowFontSize    = 12
	pdfSumFontSize    = 14

	pdfHeaderHeight  = 8.0
	pdfMetaHeight    = 4.0
	pdfHeaderGap     = 7.0 // between header band and grid
	pdfQRSize        = 14.0
	pdfRowHeight     = 7.0
	pdfBlockPadding  = 2.0
	pdfBlockGap      = 1.4
	pdfSumIndexSize  = 7.0
	pdfSumRowHeight  = 6.0
	pdfSumAnswerSize = 9.0
	pdfLabelWidth    = 7.0
)

// maxSumOperands is the longest sum column that fits on a fresh portrait
// page with its total box.
var maxSumOperands = int(math.Floor(
	(a4Long - 2*pageMargin - pdfSumIndexSize - 2*pdfBlockPadding - pdfSumAnswerSize) / pdfSumRowHeight,
))

type rgb struct{ r, g, b int }

var (
	colorBlack = rgb{0, 0, 0}
	colorWhite = rgb{255, 255, 255}
	colorGrey  = rgb{100, 100, 100}
	colorBlue  = rgb{0, 0, 255}
	colorGreen = rgb{0, 128, 0}
)

// renderOptions carries the per-export extras around the layout tree.
type renderOptions struct {
	Letterhead string    // PDF whose first page is drawn behind every page
	QRCode     bool      // stamp the worksheet ID as a QR code
	Created    time.Time // fixed creation date, zero means now
}

type pdfRenderer struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	importer   *gofpdi.Importer
	letterhead int
}

// renderPDF draws the document onto A4 pages and returns the PDF bytes.
// Blocks flow left to right and wrap onto the next line; a block that does
// not fit below the last line starts a new page.
func renderPDF(doc Document, opts renderOptions) ([]byte, error) {
	pdf := fpdf.New(string(doc.Orientation), "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(doc.Header.Title, true)
	pdf.SetSubject(doc.Header.Name+" - "+doc.Header.Level, true)
	pdf.SetCreator("mathsheets "+version, true)
	pdf.SetKeywords(doc.Header.ID, true)
	if !opts.Created.IsZero() {
		pdf.SetCreationDate(opts.Created)
		pdf.SetModificationDate(opts.Created)
	}

	r := &pdfRenderer{pdf: pdf, tr: cp1252Translator()}
	if opts.Letterhead != "" {
		if err := r.importLetterhead(opts.Letterhead); err != nil {
			return nil, err
		}
	}

	r.addPage()
	y := r.drawHeader(doc.Header, opts.QRCode)
	r.drawBlocks(doc.Blocks, y)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", doc.Filename, err)
	}
	return buf.Bytes(), nil
}

// cp1252Translator converts UTF-8 text to the encoding of the core fonts.
// Runes outside Windows-1252 are replaced.
func cp1252Translator() func(string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}
}

// importLetterhead loads the first page of path as a reusable template.
// gofpdi panics on unreadable input, so that is turned into an error.
func (r *pdfRenderer) importLetterhead(path string) (err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return fmt.Errorf("failed to open letterhead: %w", statErr)
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.importer = nil
			err = fmt.Errorf("failed to import letterhead %s: %v", path, rec)
		}
	}()

	r.importer = gofpdi.NewImporter()
	r.letterhead = r.importer.ImportPage(r.pdf, path, 1, "/MediaBox")
	return nil
}

func (r *pdfRenderer) addPage() {
	r.pdf.AddPage()
	if r.importer != nil {
		w, h := r.pdf.GetPageSize()
		r.importer.UseImportedTemplate(r.pdf, r.letterhead, 0, 0, w, h)
	}
}

func (r *pdfRenderer) setTextColor(c rgb) {
	r.pdf.SetTextColor(c.r, c.g, c.b)
}

// drawHeader prints name, title and level spread across the page, then the
// worksheet ID and date. It returns the y position where the grid starts.
func (r *pdfRenderer) drawHeader(h Header, qrCode bool) float64 {
	pdf := r.pdf
	left, top, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	textW := pageW - left - right

	if qrCode {
		key := barcode.RegisterQR(pdf, h.ID, qr.M, qr.Auto)
		barcode.Barcode(pdf, key, pageW-right-pdfQRSize, top, pdfQRSize, pdfQRSize, false)
		textW -= pdfQRSize + pdfBlockGap
	}

	third := textW / 3
	pdf.SetFont(pdfFontFamily, "", pdfHeaderFontSize)
	r.setTextColor(colorBlack)
	pdf.SetXY(left, top)
	pdf.CellFormat(third, pdfHeaderHeight, r.tr(h.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(third, pdfHeaderHeight, r.tr(h.Title), "", 0, "C", false, 0, "")
	pdf.CellFormat(third, pdfHeaderHeight, r.tr(h.Level), "", 0, "R", false, 0, "")

	meta := h.ID
	if h.Date != "" {
		meta = h.Date + "   " + meta
	}
	pdf.SetFont(pdfFontFamily, "", pdfMetaFontSize)
	r.setTextColor(colorGrey)
	pdf.SetXY(left, top+pdfHeaderHeight)
	pdf.CellFormat(textW, pdfMetaHeight, r.tr(meta), "", 0, "R", false, 0, "")

	y := top + pdfHeaderHeight + pdfMetaHeight
	if qrCode && y < top+pdfQRSize {
		y = top + pdfQRSize
	}
	return y + pdfHeaderGap
}

func blockHeight(b Block) float64 {
	if b.Kind == SumBlock {
		return pdfSumIndexSize + 2*pdfBlockPadding + float64(len(b.Operands))*pdfSumRowHeight + pdfSumAnswerSize
	}
	return float64(len(b.Rows))*pdfRowHeight + 2*pdfBlockPadding
}

func (r *pdfRenderer) drawBlocks(blocks []Block, startY float64) {
	pdf := r.pdf
	left, top, right, bottom := pdf.GetMargins()
	pageW, pageH := pdf.GetPageSize()
	maxX, maxY := pageW-right, pageH-bottom

	x, y := left, startY
	lineHeight := 0.0
	for _, b := range blocks {
		h := blockHeight(b)

		// Wrap to the next line of blocks.
		if x > left && x+b.Width > maxX {
			x = left
			y += lineHeight + pdfBlockGap
			lineHeight = 0
		}
		// Start a new page when the line is full.
		if y > top && y+h > maxY {
			r.addPage()
			x, y = left, top
			lineHeight = 0
		}

		if b.Kind == SumBlock {
			r.drawSumBlock(b, x, y, h)
		} else {
			r.drawTableBlock(b, x, y, h)
		}

		x += b.Width + pdfBlockGap
		lineHeight = max(lineHeight, h)
	}
}

func (r *pdfRenderer) drawTableBlock(b Block, x, y, h float64) {
	pdf := r.pdf
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, b.Width, h, "D")
	pdf.SetFont(pdfFontFamily, "", pdfRowFontSize)

	inner := b.Width - 2*pdfBlockPadding
	rowX := x + pdfBlockPadding
	rowY := y + pdfBlockPadding
	for _, row := range b.Rows {
		if b.Kind == DivisionBlock {
			r.drawDivisionRow(row, rowX, rowY, inner)
		} else {
			r.drawMultiplicationRow(row, rowX, rowY, inner)
		}
		rowY += pdfRowHeight
	}
}

// drawMultiplicationRow prints "a x b =" followed by the answer or a blank
// line.
func (r *pdfRenderer) drawMultiplicationRow(row Row, x, y, w float64) {
	qW := w * 0.6
	r.setTextColor(colorBlack)
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(qW, pdfRowHeight, r.tr(row.Question), "", 0, "R", false, 0, "")
	for _, a := range row.Answers {
		r.drawAnswer(a, x+qW+1, y, w-qW-1)
	}
}

// drawDivisionRow prints "a ÷ b" followed by labelled Q and R boxes.
func (r *pdfRenderer) drawDivisionRow(row Row, x, y, w float64) {
	qW := w * 0.4
	r.setTextColor(colorBlack)
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(qW, pdfRowHeight, r.tr(row.Question), "", 0, "R", false, 0, "")
	if len(row.Answers) == 0 {
		return
	}

	slot := (w - qW) / float64(len(row.Answers))
	for i, a := range row.Answers {
		ax := x + qW + float64(i)*slot
		r.setTextColor(colorBlack)
		r.pdf.SetXY(ax, y)
		r.pdf.CellFormat(pdfLabelWidth, pdfRowHeight, r.tr(a.Label), "", 0, "R", false, 0, "")
		r.drawAnswer(Answer{Value: a.Value, Boxed: a.Boxed}, ax+pdfLabelWidth, y, slot-pdfLabelWidth-1)
	}
}

// drawAnswer draws the placeholder (box or underline) and the value, if
// any. Blank answers keep the same geometry as filled ones.
func (r *pdfRenderer) drawAnswer(a Answer, x, y, w float64) {
	pdf := r.pdf
	switch {
	case a.Boxed:
		pdf.Rect(x, y+0.6, w, pdfRowHeight-1.2, "D")
	case a.Value == "":
		pdf.Line(x, y+pdfRowHeight-1, x+w, y+pdfRowHeight-1)
	}
	if a.Value == "" {
		return
	}
	r.setTextColor(colorGreen)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, pdfRowHeight, r.tr(a.Value), "", 0, "C", false, 0, "")
	r.setTextColor(colorBlack)
}

// drawSumBlock prints the index band, the operands right-aligned and the
// boxed total at the bottom of the column.
func (r *pdfRenderer) drawSumBlock(b Block, x, y, h float64) {
	pdf := r.pdf
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, b.Width, h, "D")
	pdf.SetFont(pdfFontFamily, "", pdfSumFontSize)

	pdf.SetFillColor(colorBlack.r, colorBlack.g, colorBlack.b)
	r.setTextColor(colorWhite)
	pdf.SetXY(x, y)
	pdf.CellFormat(b.Width, pdfSumIndexSize, strconv.Itoa(b.Index), "", 0, "C", true, 0, "")

	r.setTextColor(colorBlue)
	rowY := y + pdfSumIndexSize + pdfBlockPadding
	for _, op := range b.Operands {
		pdf.SetXY(x+pdfBlockPadding, rowY)
		pdf.CellFormat(b.Width-2*pdfBlockPadding, pdfSumRowHeight, r.tr(op), "", 0, "R", false, 0, "")
		rowY += pdfSumRowHeight
	}

	r.setTextColor(colorGreen)
	pdf.SetXY(x, y+h-pdfSumAnswerSize)
	pdf.CellFormat(b.Width, pdfSumAnswerSize, r.tr(b.Total.Value), "1", 0, "C", false, 0, "")
	r.setTextColor(colorBlack)
}
