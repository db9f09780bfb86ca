package quote

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces a printable quote document with its priced lines.
func RenderPDF(q Quote) ([]byte, error) {
	pricing := PriceQuote(q)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Quote %s", q.DocumentNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Contractor: %s %s", q.ContractorCode, q.ContractorName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Product: %s %s", q.ProductCode, q.ProductName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Minimum quantity: %.0f", q.MinQuantity))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Materials")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range pricing.Materials {
		pdf.Cell(0, 7, fmt.Sprintf("%s  %.2f x %.2f = %.2f", line.Name, line.BilledQuantity, line.UnitPrice, line.Total))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Production activities")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range pricing.Activities {
		pdf.Cell(0, 7, fmt.Sprintf("%s  %.2f x %.2f = %.2f", line.Name, line.BilledQuantity, line.UnitPrice, line.Total))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", pricing.Total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
