package finance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// GenerateStatementPDF renders a project's financial summary to a PDF file
// and returns its path.
func (s *Service) GenerateStatementPDF(ctx context.Context, companyID, projectID string) (string, error) {
	project, err := s.projects.Store().GetProject(ctx, companyID, projectID)
	if err != nil {
		return "", err
	}
	financials, err := s.ProjectFinancials(ctx, companyID, projectID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.statementDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.statementDir, projectID+".pdf")

	amount := func(value decimal.Decimal) string {
		return fmt.Sprintf("%s %s", s.currency, value.StringFixed(2))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Project Financial Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Project: %s", project.Name))
	pdf.Ln(10)
	pdf.Cell(0, 8, "Contract Value: "+amount(financials.ContractValue))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Completed Value: %s (%.2f%%)", amount(financials.CompletedValue), financials.CompletionPct))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Labor Cost: "+amount(financials.LaborCost))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Expense Cost: "+amount(financials.ExpenseCost))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Total Cost: "+amount(financials.TotalCost))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Profit: %s (%.2f%%)", amount(financials.Profit), financials.ProfitMargin))
	if financials.Partial {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, "Partial report: some employees have no configured rate and were excluded from labor cost.")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
