package invoice

import (
	"bytes"
	"fmt"

	"roame/models"

	"github.com/go-pdf/fpdf"
)

// Renderer turns invoice data into a document.
type Renderer interface {
	Render(data models.InvoiceData) ([]byte, error)
	// Ext is the file extension of rendered documents, with the dot.
	Ext() string
}

// PDFRenderer lays invoices out as a single A4 page.
type PDFRenderer struct {
	Brand string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Brand: "Roame"}
}

func (r *PDFRenderer) Ext() string { return ".pdf" }

func money(v float64) string {
	return fmt.Sprintf("INR %.2f", v)
}

// Render produces the PDF bytes.
func (r *PDFRenderer) Render(data models.InvoiceData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(data.InvoiceID, false)
	pdf.SetCreator(r.Brand, false)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, r.Brand+" Invoice", "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Invoice ID", data.InvoiceID},
		{"Customer Name", data.CustomerName},
		{"Booking Date", data.Date},
		{"Booked from", data.From},
		{"to", data.To},
	}
	if data.ListingTitle != "" {
		rows = append(rows, [2]string{"Stay", data.ListingTitle})
	}
	for _, row := range rows {
		pdf.CellFormat(45, 8, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, pdf.UnicodeTranslatorFromDescriptor("")(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "BU", 14)
	pdf.CellFormat(0, 10, "Payment Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	summary := [][2]string{
		{"Base Price", money(data.BaseAmount)},
		{"GST (15%)", money(data.GST)},
		{"Total Paid", money(data.TotalAmount)},
	}
	for _, row := range summary {
		pdf.CellFormat(60, 8, row[0], "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row[1], "B", 1, "R", false, 0, "")
	}
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "I", 12)
	pdf.CellFormat(0, 8, "Thank you for booking with "+r.Brand+"!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", data.InvoiceID, err)
	}
	return buf.Bytes(), nil
}
