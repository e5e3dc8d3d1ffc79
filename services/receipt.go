package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"classroom-module/config"
	"classroom-module/models"
)

// PDFReceiptGenerator writes payment receipts as PDF files into the
// configured export directory.
type PDFReceiptGenerator struct{}

// NewPDFReceiptGenerator creates a new PDFReceiptGenerator.
func NewPDFReceiptGenerator() *PDFReceiptGenerator {
	return &PDFReceiptGenerator{}
}

// Generate creates a receipt PDF for an approved payment and returns its
// file path.
func (g *PDFReceiptGenerator) Generate(p models.Payment, student models.Student, course models.Course) (string, error) {
	if err := os.MkdirAll(config.AppConfig.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Receipt for: %s", student.Name))
	pdf.Ln(10)
	pdf.Cell(40, 10, fmt.Sprintf("Course: %s", course.Name))
	pdf.Ln(10)
	pdf.Cell(40, 10, fmt.Sprintf("Amount: %.2f %s", p.Amount, p.Currency))
	pdf.Ln(10)
	pdf.Cell(40, 10, fmt.Sprintf("Payment ID: %s", p.ID))
	pdf.Ln(10)
	approvedAt := time.Now().UTC()
	if p.ApprovedAt != nil {
		approvedAt = *p.ApprovedAt
	}
	pdf.Cell(40, 10, fmt.Sprintf("Approved: %s", approvedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)
	pdf.Cell(40, 10, "Thank you for your payment.")

	fileName := filepath.Join(config.AppConfig.ExportDir, fmt.Sprintf("receipt_%s.pdf", p.ID))
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", fmt.Errorf("error generating receipt PDF: %w", err)
	}

	return fileName, nil
}
