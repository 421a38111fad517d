package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hr-backend/models"

	"github.com/jung-kurt/gofpdf"
)

// PdfGenerator renders employment contracts to PDF files on disk.
type PdfGenerator struct {
	StoragePath string
}

func NewPdfGenerator(storagePath string) *PdfGenerator {
	if storagePath == "" {
		storagePath = "contracts/pdfs"
	}
	return &PdfGenerator{StoragePath: storagePath}
}

// GenerateContractPdf writes the contract document and returns the
// path of the generated file.
func (g *PdfGenerator) GenerateContractPdf(contract models.Contract, employee models.Employee) (string, error) {
	if err := os.MkdirAll(g.StoragePath, 0o755); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Employment Contract")
	pdf.Ln(16)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "Contract number: "+contract.ContractNumber)
	pdf.Ln(10)

	rows := [][2]string{
		{"Employee", employee.User.FullName()},
		{"Email", employee.User.Email},
		{"Company", employee.CompanyName},
		{"Start date", contract.StartDate.Format("2006-01-02")},
		{"Hourly rate", fmt.Sprintf("%.2f %s", contract.HourlyRate, contract.Currency)},
		{"Working hours per week", fmt.Sprintf("%d", contract.WorkingHoursPerWeek)},
	}
	if contract.EndDate != nil {
		rows = append(rows, [2]string{"End date", contract.EndDate.Format("2006-01-02")})
	}

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, "Generated on "+time.Now().Format("2006-01-02 15:04"))

	path := filepath.Join(g.StoragePath, contract.ContractNumber+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}
