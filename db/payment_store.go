package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"classroom-module/models"
	"classroom-module/services"
)

// PaymentStore is the postgres implementation of services.PaymentStore.
// The one-active-payment-per-(student, course) invariant is backed by the
// partial unique index created in createTables.
type PaymentStore struct{}

// NewPaymentStore creates a new PaymentStore.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{}
}

const paymentColumns = `id, student_id, course_id, teacher_id, amount, currency, check_image_uri, status, submitted_at, approved_at, approved_by, rejection_reason`

func (s *PaymentStore) Create(ctx context.Context, p models.Payment) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO payments (id, student_id, course_id, teacher_id, amount, currency, check_image_uri, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.StudentID, p.CourseID, p.TeacherID, p.Amount, p.Currency, p.CheckImageURI, p.Status, p.SubmittedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return services.ErrDuplicateActivePayment
		}
		return fmt.Errorf("error inserting payment: %w", err)
	}
	return nil
}

func (s *PaymentStore) GetByID(ctx context.Context, id string) (models.Payment, error) {
	row := DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row)
}

func (s *PaymentStore) LatestActive(ctx context.Context, studentID, courseID string) (models.Payment, error) {
	row := DB.QueryRowContext(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE student_id = $1 AND course_id = $2 AND status IN ('pending', 'approved')
		ORDER BY submitted_at DESC LIMIT 1`, studentID, courseID)
	return scanPayment(row)
}

func (s *PaymentStore) LatestForPair(ctx context.Context, studentID, courseID string) (models.Payment, error) {
	row := DB.QueryRowContext(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE student_id = $1 AND course_id = $2
		ORDER BY submitted_at DESC LIMIT 1`, studentID, courseID)
	return scanPayment(row)
}

// MarkApproved flips the status only while it is still pending, so a
// concurrent settle cannot be overwritten.
func (s *PaymentStore) MarkApproved(ctx context.Context, id, approvedBy string, at time.Time) (bool, error) {
	res, err := DB.ExecContext(ctx, `
		UPDATE payments SET status = 'approved', approved_at = $2, approved_by = $3
		WHERE id = $1 AND status = 'pending'`, id, at, approvedBy)
	if err != nil {
		return false, fmt.Errorf("error approving payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error approving payment: %w", err)
	}
	return n > 0, nil
}

func (s *PaymentStore) MarkRejected(ctx context.Context, id, reason string) (bool, error) {
	res, err := DB.ExecContext(ctx, `
		UPDATE payments SET status = 'rejected', rejection_reason = $2
		WHERE id = $1 AND status = 'pending'`, id, reason)
	if err != nil {
		return false, fmt.Errorf("error rejecting payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error rejecting payment: %w", err)
	}
	return n > 0, nil
}

func (s *PaymentStore) ListForTeacher(ctx context.Context, teacherID, status string) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE teacher_id = $1`
	args := []interface{}{teacherID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	items := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading payments: %w", err)
	}
	return items, nil
}

func scanPayment(row rowScanner) (models.Payment, error) {
	var p models.Payment
	var approvedBy, rejectionReason sql.NullString
	err := row.Scan(&p.ID, &p.StudentID, &p.CourseID, &p.TeacherID, &p.Amount, &p.Currency,
		&p.CheckImageURI, &p.Status, &p.SubmittedAt, &p.ApprovedAt, &approvedBy, &rejectionReason)
	if err == sql.ErrNoRows {
		return models.Payment{}, services.ErrNotFound
	}
	if err != nil {
		return models.Payment{}, fmt.Errorf("error scanning payment: %w", err)
	}
	p.ApprovedBy = approvedBy.String
	p.RejectionReason = rejectionReason.String
	return p, nil
}
