package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"classroom-module/config"
	"classroom-module/errors"
)

// ReportService exports teacher-facing spreadsheets.
type ReportService struct {
	payments PaymentStore
	users    UserStore
}

// NewReportService creates a new ReportService.
func NewReportService(payments PaymentStore, users UserStore) *ReportService {
	return &ReportService{payments: payments, users: users}
}

// ExportTeacherPayments writes all of the teacher's payments to an .xlsx
// file and returns its path.
func (s *ReportService) ExportTeacherPayments(ctx context.Context, teacherID string) (string, error) {
	if teacherID == "" {
		return "", errors.NewInvalidParamsError("teacher_id is required")
	}
	if _, err := s.users.GetTeacher(ctx, teacherID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", errors.NewNotFoundError("teacher not found")
		}
		return "", unavailable("error checking teacher", err)
	}

	payments, err := s.payments.ListForTeacher(ctx, teacherID, "")
	if err != nil {
		return "", unavailable("error listing payments", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Payment ID", "Student ID", "Course ID", "Amount", "Currency", "Status", "Submitted At", "Approved At", "Rejection Reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range payments {
		approvedAt := ""
		if p.ApprovedAt != nil {
			approvedAt = p.ApprovedAt.Format(time.RFC3339)
		}
		values := []interface{}{
			p.ID, p.StudentID, p.CourseID, p.Amount, p.Currency, p.Status,
			p.SubmittedAt.Format(time.RFC3339), approvedAt, p.RejectionReason,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(config.AppConfig.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}
	fileName := filepath.Join(config.AppConfig.ExportDir, fmt.Sprintf("payments_%s_%d.xlsx", teacherID, time.Now().Unix()))
	if err := f.SaveAs(fileName); err != nil {
		return "", fmt.Errorf("error saving payments report: %w", err)
	}

	return fileName, nil
}
