package models

import "time"

// Payment statuses. Approved and rejected are terminal.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// DefaultCurrency is used when the submitting client does not set one.
const DefaultCurrency = "INR"

// Payment represents a check payment submitted by a student for a course,
// pending approval by the course teacher. For a given (student, course)
// pair at most one payment may be pending or approved at a time.
type Payment struct {
	ID              string     `json:"id"`
	StudentID       string     `json:"student_id"`
	CourseID        string     `json:"course_id"`
	TeacherID       string     `json:"teacher_id"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	CheckImageURI   string     `json:"check_image_uri"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// IsActive reports whether the payment blocks a new submission for the
// same (student, course) pair.
func (p Payment) IsActive() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusApproved
}
