package services

import (
	"context"
	"time"

	"classroom-module/errors"
	"classroom-module/models"
)

// Store sentinel errors. The postgres implementations in the db package
// return these; anything else coming back from a store is treated as a
// transient failure and surfaced as Unavailable.
var (
	ErrNotFound               = errors.NewError("record not found")
	ErrDuplicateSubmission    = errors.NewError("student already submitted this assignment")
	ErrDuplicateActivePayment = errors.NewError("an active payment already exists for this student and course")
)

// AssignmentStore persists assignments and their embedded submissions.
type AssignmentStore interface {
	Create(ctx context.Context, a models.Assignment) error
	GetByID(ctx context.Context, id string) (models.Assignment, error)
	// AppendSubmission appends sub to the assignment's submission list in a
	// single conditional write: it fails with ErrDuplicateSubmission when the
	// list already holds a submission by the same student at write time.
	AppendSubmission(ctx context.Context, assignmentID string, sub models.Submission, now time.Time) (models.Assignment, error)
	// ReplaceSubmissions persists the whole submission list plus the derived
	// status in one write.
	ReplaceSubmissions(ctx context.Context, assignmentID string, subs []models.Submission, status string, now time.Time) error
	List(ctx context.Context, in ListAssignmentsInput) ([]models.Assignment, int, error)
}

// PaymentStore persists payments.
type PaymentStore interface {
	// Create inserts a pending payment and fails with
	// ErrDuplicateActivePayment when another pending or approved payment
	// exists for the same (student, course) pair.
	Create(ctx context.Context, p models.Payment) error
	GetByID(ctx context.Context, id string) (models.Payment, error)
	// LatestActive returns the most recent pending or approved payment for
	// the pair, or ErrNotFound.
	LatestActive(ctx context.Context, studentID, courseID string) (models.Payment, error)
	// LatestForPair returns the most recent payment for the pair regardless
	// of status, or ErrNotFound.
	LatestForPair(ctx context.Context, studentID, courseID string) (models.Payment, error)
	// MarkApproved flips pending to approved. Returns false without error
	// when the payment was not pending anymore.
	MarkApproved(ctx context.Context, id, approvedBy string, at time.Time) (bool, error)
	// MarkRejected flips pending to rejected. Returns false without error
	// when the payment was not pending anymore.
	MarkRejected(ctx context.Context, id, reason string) (bool, error)
	ListForTeacher(ctx context.Context, teacherID, status string) ([]models.Payment, error)
}

// CourseStore persists courses and the enrollment list mutated on payment
// approval.
type CourseStore interface {
	Create(ctx context.Context, c models.Course) error
	GetByID(ctx context.Context, id string) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	// Enroll appends studentID to the course's enrolled list and recounts
	// total_students, conditionally: it returns false without error when the
	// student is already enrolled, making approval retries idempotent.
	Enroll(ctx context.Context, courseID, studentID string) (bool, error)
}

// UserStore persists students and teachers.
type UserStore interface {
	CreateStudent(ctx context.Context, s models.Student) error
	GetStudent(ctx context.Context, id string) (models.Student, error)
	CreateTeacher(ctx context.Context, t models.Teacher) error
	GetTeacher(ctx context.Context, id string) (models.Teacher, error)
}

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) error
	GetByID(ctx context.Context, id string) (models.Notification, error)
	// MarkRead returns false without error when the notification exists but
	// was already read, and ErrNotFound when it does not exist.
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID, userType string) (int, error)
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string, f NotificationFilter) ([]models.Notification, error)
}

// ChatSender delivers a fire-and-forget message to the external chat
// channel. Failures are the caller's to swallow; they never affect the
// workflow outcome.
type ChatSender interface {
	Send(userID, text string) error
}

// EmailSender queues an email for asynchronous delivery.
type EmailSender interface {
	Queue(to, subject, body string, attachment ...string) error
}

// unavailable wraps a non-sentinel store failure as a transient error.
func unavailable(msg string, err error) error {
	return errors.NewUnavailableError(msg, err)
}
