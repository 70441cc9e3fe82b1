// Package pdf renders warehouse documents for printing.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
)

// Line is one printed document row.
type Line struct {
	BladeCode string
	BladeName string
	Status    string
	AddedAt   string
}

// DocumentData is the assembled print model. The handler resolves client
// and blade names; the renderer only draws.
type DocumentData struct {
	Document   wzpz.Document
	ClientName string
	Lines      []Line
}

var typeTitles = map[wzpz.DocType]string{
	wzpz.TypeWZ: "Wydanie zewnetrzne",
	wzpz.TypePZ: "Przyjecie zewnetrzne",
}

// Render produces the A4 document PDF.
func Render(data DocumentData) ([]byte, error) {
	doc := data.Document

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, doc.Number, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	title := typeTitles[doc.Type]
	pdf.CellFormat(0, 7, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Klient: %s (%s)", data.ClientName, doc.ClientCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Okres: %04d-%02d", doc.Year, int(doc.Month)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", doc.Status), "", 1, "L", false, 0, "")
	if doc.ClosedAt != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Zamkniety: %s", doc.ClosedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(10, 8, "Lp", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Kod", "1", 0, "L", true, 0, "")
	pdf.CellFormat(75, 8, "Nazwa", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Stan", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Dodano", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, line := range data.Lines {
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, line.BladeCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(75, 7, line.BladeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, line.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, line.AddedAt, "1", 1, "L", false, 0, "")
	}
	if len(data.Lines) == 0 {
		pdf.CellFormat(180, 7, "Brak pozycji", "1", 1, "C", false, 0, "")
	}

	pdf.Ln(15)
	pdf.CellFormat(90, 6, "Wystawil", "T", 0, "C", false, 0, "")
	pdf.CellFormat(90, 6, "Odebral", "T", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
