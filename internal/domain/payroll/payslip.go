package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"shiftdesk/internal/domain/auth"
)

// GeneratePayslipPDF writes the payslip for one payroll row to
// storage/payslips and returns the file path. With a data key configured
// the file is encrypted at rest.
func (s *Service) GeneratePayslipPDF(ctx context.Context, actor auth.Actor, payrollID string) (string, error) {
	row, err := s.store.GetPayroll(ctx, payrollID)
	if err != nil {
		return "", err
	}
	if actor.Role == auth.RoleStaff && row.WorkerID != actor.UserID {
		return "", fmt.Errorf("%w: staff may only export their own payslip", ErrForbidden)
	}
	if actor.Role == auth.RoleManager && !actor.CanManageStore(row.StoreID) {
		return "", fmt.Errorf("%w: not your store", ErrForbidden)
	}

	if err := os.MkdirAll("storage/payslips", 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join("storage/payslips", row.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Worker: %s", row.WorkerName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s", row.Month))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Hours: %.2f", float64(row.TotalMinutes)/60))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f", row.GrossPay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Adjustments: %.2f", row.AdjustmentTotal))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Final: %.2f", row.FinalPay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", row.Status))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if s.crypto != nil && s.crypto.Configured() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	return filePath, nil
}
