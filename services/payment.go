package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classroom-module/errors"
	"classroom-module/logger"
	"classroom-module/models"
)

// SubmitPaymentInput carries the fields for a new check payment. Amount may
// be zero to default to the course price.
type SubmitPaymentInput struct {
	StudentID     string
	CourseID      string
	TeacherID     string
	Amount        float64
	Currency      string
	CheckImageURI string
}

// PaymentResult is the outcome of a payment mutation. AlreadyExists is set
// when an idempotent re-submit or re-approve returned an existing record
// instead of performing a new write.
type PaymentResult struct {
	Payment       models.Payment `json:"payment"`
	Message       string         `json:"message"`
	AlreadyExists bool           `json:"already_exists"`
}

// PaymentStatus is the read-only status for a (student, course) pair.
type PaymentStatus struct {
	HasPayment bool            `json:"has_payment"`
	IsApproved bool            `json:"is_approved"`
	Payment    *models.Payment `json:"payment,omitempty"`
}

// ReceiptGenerator produces a receipt document for an approved payment and
// returns its file path.
type ReceiptGenerator interface {
	Generate(p models.Payment, student models.Student, course models.Course) (string, error)
}

// PaymentService owns the payment lifecycle: submission with idempotent
// retries, teacher approval with the enrollment side effect, and rejection.
type PaymentService struct {
	payments      PaymentStore
	courses       CourseStore
	users         UserStore
	notifications *NotificationService
	chat          ChatSender
	mail          EmailSender
	receipts      ReceiptGenerator
}

// NewPaymentService creates a new PaymentService. chat, mail and receipts
// may be nil when the corresponding channel is disabled.
func NewPaymentService(payments PaymentStore, courses CourseStore, users UserStore, notifications *NotificationService, chat ChatSender, mail EmailSender, receipts ReceiptGenerator) *PaymentService {
	return &PaymentService{
		payments:      payments,
		courses:       courses,
		users:         users,
		notifications: notifications,
		chat:          chat,
		mail:          mail,
		receipts:      receipts,
	}
}

// Submit records a new pending payment, or returns the existing active one
// when the student already has a pending or approved payment for the
// course. Repeated client retries therefore never create duplicate rows.
func (s *PaymentService) Submit(ctx context.Context, in SubmitPaymentInput) (PaymentResult, error) {
	if in.StudentID == "" || in.CourseID == "" || in.TeacherID == "" || in.CheckImageURI == "" {
		return PaymentResult{}, errors.NewInvalidParamsError("student_id, course_id, teacher_id and check_image_uri are required")
	}
	if in.Amount < 0 {
		return PaymentResult{}, errors.NewInvalidParamsError("amount cannot be negative")
	}

	student, err := s.users.GetStudent(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PaymentResult{}, errors.NewNotFoundError("student not found")
		}
		return PaymentResult{}, unavailable("error checking student", err)
	}
	course, err := s.courses.GetByID(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PaymentResult{}, errors.NewNotFoundError("course not found")
		}
		return PaymentResult{}, unavailable("error checking course", err)
	}
	teacher, err := s.users.GetTeacher(ctx, in.TeacherID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PaymentResult{}, errors.NewNotFoundError("teacher not found")
		}
		return PaymentResult{}, unavailable("error checking teacher", err)
	}

	if existing, err := s.payments.LatestActive(ctx, in.StudentID, in.CourseID); err == nil {
		return existingResult(existing), nil
	} else if !errors.Is(err, ErrNotFound) {
		return PaymentResult{}, unavailable("error checking existing payments", err)
	}

	// Omitted amount defaults to the course price.
	amount := in.Amount
	if amount == 0 {
		amount = course.Price
	}
	currency := in.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	p := models.Payment{
		ID:            uuid.New().String(),
		StudentID:     in.StudentID,
		CourseID:      in.CourseID,
		TeacherID:     in.TeacherID,
		Amount:        amount,
		Currency:      currency,
		CheckImageURI: in.CheckImageURI,
		Status:        models.PaymentStatusPending,
		SubmittedAt:   time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateActivePayment) {
			// A concurrent submit won the race; return its row.
			if existing, rerr := s.payments.LatestActive(ctx, in.StudentID, in.CourseID); rerr == nil {
				return existingResult(existing), nil
			}
			return PaymentResult{}, errors.NewConflictError("an active payment already exists for this course")
		}
		return PaymentResult{}, unavailable("error saving payment", err)
	}

	// The durable notification record is the contract; its failure is
	// logged but the submission stays successful.
	if s.notifications != nil {
		_, nerr := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:   p.TeacherID,
			UserType: models.UserTypeTeacher,
			Type:     models.NotificationPaymentSubmitted,
			Title:    "Payment submitted",
			Message:  fmt.Sprintf("%s submitted a payment of %.2f %s for %s", student.Name, p.Amount, p.Currency, course.Name),
			Link:     "/payments/" + p.ID,
			Metadata: map[string]interface{}{
				"payment_id": p.ID,
				"student_id": p.StudentID,
				"course_id":  p.CourseID,
			},
		})
		if nerr != nil {
			logger.Error("Failed to create payment notification for teacher %s: %v", p.TeacherID, nerr)
		}
	}

	// External delivery is an enhancement, never a requirement.
	if s.chat != nil {
		if cerr := s.chat.Send(p.TeacherID, fmt.Sprintf("New payment from %s for %s, awaiting approval", student.Name, course.Name)); cerr != nil {
			logger.Warn("Failed to send payment chat message to teacher %s: %v", p.TeacherID, cerr)
		}
	}
	if s.mail != nil {
		subject, body := PaymentSubmittedEmail(teacher.Name, student.Name, course.Name, p.Amount, p.Currency)
		if merr := s.mail.Queue(teacher.Email, subject, body); merr != nil {
			logger.Warn("Failed to queue payment email to %s: %v", teacher.Email, merr)
		}
	}

	return PaymentResult{Payment: p, Message: "payment submitted"}, nil
}

func existingResult(p models.Payment) PaymentResult {
	msg := "payment already submitted"
	if p.Status == models.PaymentStatusApproved {
		msg = "payment already approved"
	}
	return PaymentResult{Payment: p, Message: msg, AlreadyExists: true}
}

// Approve marks a pending payment approved and enrolls the student in the
// course. The payment status write commits before the enrollment mutation
// is attempted; if enrollment then fails the approval is never reverted and
// the gap is surfaced as a partial failure for later reconciliation.
func (s *PaymentService) Approve(ctx context.Context, paymentID, teacherID string) (PaymentResult, error) {
	if paymentID == "" || teacherID == "" {
		return PaymentResult{}, errors.NewInvalidParamsError("payment_id and teacher_id are required")
	}

	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PaymentResult{}, errors.NewNotFoundError("payment not found")
		}
		return PaymentResult{}, unavailable("error loading payment", err)
	}
	if p.TeacherID != teacherID {
		return PaymentResult{}, errors.NewUnauthorizedError("payment belongs to another teacher")
	}
	switch p.Status {
	case models.PaymentStatusApproved:
		return PaymentResult{Payment: p, Message: "payment already approved", AlreadyExists: true}, nil
	case models.PaymentStatusRejected:
		return PaymentResult{}, errors.NewBusinessRuleError("payment already rejected")
	}

	now := time.Now().UTC()
	flipped, err := s.payments.MarkApproved(ctx, paymentID, teacherID, now)
	if err != nil {
		return PaymentResult{}, unavailable("error approving payment", err)
	}
	if !flipped {
		// Someone else settled the payment between our read and the write.
		current, rerr := s.payments.GetByID(ctx, paymentID)
		if rerr != nil {
			return PaymentResult{}, unavailable("error reloading payment", rerr)
		}
		if current.Status == models.PaymentStatusApproved {
			return PaymentResult{Payment: current, Message: "payment already approved", AlreadyExists: true}, nil
		}
		return PaymentResult{}, errors.NewBusinessRuleError("payment already rejected")
	}
	p.Status = models.PaymentStatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = teacherID

	// The approval is committed; everything below must not revert it.
	if _, err := s.courses.Enroll(ctx, p.CourseID, p.StudentID); err != nil {
		logger.Error("Payment %s approved but enrollment in course %s failed: %v", p.ID, p.CourseID, err)
		return PaymentResult{Payment: p}, errors.E(errors.Partial, "payment approved but enrollment failed, reconciliation required", err)
	}

	if s.notifications != nil {
		_, nerr := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:   p.StudentID,
			UserType: models.UserTypeStudent,
			Type:     models.NotificationPaymentApproved,
			Title:    "Payment approved",
			Message:  "Your payment was approved and you are now enrolled",
			Link:     "/courses/" + p.CourseID,
			Metadata: map[string]interface{}{
				"payment_id": p.ID,
				"course_id":  p.CourseID,
			},
		})
		if nerr != nil {
			logger.Error("Failed to create approval notification for student %s: %v", p.StudentID, nerr)
		}
	}

	s.sendApprovalExtras(ctx, p)
	return PaymentResult{Payment: p, Message: "payment approved"}, nil
}

// sendApprovalExtras delivers the best-effort approval side channel:
// receipt PDF, email and chat message. All failures are swallowed.
func (s *PaymentService) sendApprovalExtras(ctx context.Context, p models.Payment) {
	student, err := s.users.GetStudent(ctx, p.StudentID)
	if err != nil {
		logger.Warn("Failed to load student %s for approval delivery: %v", p.StudentID, err)
		return
	}
	course, err := s.courses.GetByID(ctx, p.CourseID)
	if err != nil {
		logger.Warn("Failed to load course %s for approval delivery: %v", p.CourseID, err)
		return
	}

	var receiptPath string
	if s.receipts != nil {
		receiptPath, err = s.receipts.Generate(p, student, course)
		if err != nil {
			logger.Warn("Failed to generate receipt for payment %s: %v", p.ID, err)
			receiptPath = ""
		}
	}

	if s.mail != nil {
		subject, body := PaymentApprovedEmail(student.Name, course.Name, p.Amount, p.Currency)
		if receiptPath != "" {
			err = s.mail.Queue(student.Email, subject, body, receiptPath)
		} else {
			err = s.mail.Queue(student.Email, subject, body)
		}
		if err != nil {
			logger.Warn("Failed to queue approval email to %s: %v", student.Email, err)
		}
	}
	if s.chat != nil {
		if err := s.chat.Send(p.StudentID, fmt.Sprintf("Your payment for %s was approved", course.Name)); err != nil {
			logger.Warn("Failed to send approval chat message: %v", err)
		}
	}
}

// Reject marks a pending payment rejected. Rejecting an already-rejected
// payment is a no-op success.
func (s *PaymentService) Reject(ctx context.Context, paymentID, teacherID, reason string) (PaymentResult, error) {
	if paymentID == "" || teacherID == "" {
		return PaymentResult{}, errors.NewInvalidParamsError("payment_id and teacher_id are required")
	}

	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PaymentResult{}, errors.NewNotFoundError("payment not found")
		}
		return PaymentResult{}, unavailable("error loading payment", err)
	}
	if p.TeacherID != teacherID {
		return PaymentResult{}, errors.NewUnauthorizedError("payment belongs to another teacher")
	}
	switch p.Status {
	case models.PaymentStatusRejected:
		return PaymentResult{Payment: p, Message: "payment already rejected", AlreadyExists: true}, nil
	case models.PaymentStatusApproved:
		return PaymentResult{}, errors.NewBusinessRuleError("payment already approved")
	}

	if reason == "" {
		reason = "Payment could not be verified"
	}
	flipped, err := s.payments.MarkRejected(ctx, paymentID, reason)
	if err != nil {
		return PaymentResult{}, unavailable("error rejecting payment", err)
	}
	if !flipped {
		current, rerr := s.payments.GetByID(ctx, paymentID)
		if rerr != nil {
			return PaymentResult{}, unavailable("error reloading payment", rerr)
		}
		if current.Status == models.PaymentStatusRejected {
			return PaymentResult{Payment: current, Message: "payment already rejected", AlreadyExists: true}, nil
		}
		return PaymentResult{}, errors.NewBusinessRuleError("payment already approved")
	}
	p.Status = models.PaymentStatusRejected
	p.RejectionReason = reason

	if s.notifications != nil {
		_, nerr := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:   p.StudentID,
			UserType: models.UserTypeStudent,
			Type:     models.NotificationPaymentRejected,
			Title:    "Payment rejected",
			Message:  reason,
			Metadata: map[string]interface{}{
				"payment_id": p.ID,
				"course_id":  p.CourseID,
				"reason":     reason,
			},
		})
		if nerr != nil {
			logger.Error("Failed to create rejection notification for student %s: %v", p.StudentID, nerr)
		}
	}
	if s.mail != nil {
		if student, serr := s.users.GetStudent(ctx, p.StudentID); serr == nil {
			subject, body := PaymentRejectedEmail(student.Name, reason)
			if merr := s.mail.Queue(student.Email, subject, body); merr != nil {
				logger.Warn("Failed to queue rejection email to %s: %v", student.Email, merr)
			}
		}
	}

	return PaymentResult{Payment: p, Message: "payment rejected"}, nil
}

// ListForTeacher returns the teacher's payments, optionally filtered by
// status, newest first.
func (s *PaymentService) ListForTeacher(ctx context.Context, teacherID, status string) ([]models.Payment, error) {
	if teacherID == "" {
		return nil, errors.NewInvalidParamsError("teacher_id is required")
	}
	switch status {
	case "", models.PaymentStatusPending, models.PaymentStatusApproved, models.PaymentStatusRejected:
	default:
		return nil, errors.NewInvalidParamsError("invalid status filter: " + status)
	}
	items, err := s.payments.ListForTeacher(ctx, teacherID, status)
	if err != nil {
		return nil, unavailable("error listing payments", err)
	}
	return items, nil
}

// GetStatus returns the most recent payment for the pair, if any.
func (s *PaymentService) GetStatus(ctx context.Context, studentID, courseID string) (PaymentStatus, error) {
	if studentID == "" || courseID == "" {
		return PaymentStatus{}, errors.NewInvalidParamsError("student_id and course_id are required")
	}
	p, err := s.payments.LatestForPair(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PaymentStatus{}, nil
		}
		return PaymentStatus{}, unavailable("error loading payment status", err)
	}
	return PaymentStatus{
		HasPayment: true,
		IsApproved: p.Status == models.PaymentStatusApproved,
		Payment:    &p,
	}, nil
}
