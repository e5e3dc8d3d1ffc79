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

// Allowed sort fields for assignment listing.
var assignmentSortFields = map[string]bool{
	"created_at": true,
	"due_date":   true,
	"title":      true,
	"status":     true,
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateAssignmentInput carries the fields for a new assignment.
type CreateAssignmentInput struct {
	CourseID    string
	TeacherID   string
	Title       string
	Description string
	DueDate     *time.Time
	Resources   []string
	MaxGrade    float64
}

// ListAssignmentsInput carries listing filters, pagination and sorting.
type ListAssignmentsInput struct {
	CourseID   string
	SearchText string
	Page       int
	PageSize   int
	SortBy     string
	Order      string
}

// AssignmentPage is one page of assignments plus counts.
type AssignmentPage struct {
	Items     []models.Assignment `json:"items"`
	Total     int                 `json:"total"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
	PageCount int                 `json:"page_count"`
}

// AssignmentService owns the assignment lifecycle: creation, submission by
// students before the due date, grading by the teacher and the status
// aggregation derived from the submission list.
type AssignmentService struct {
	assignments   AssignmentStore
	courses       CourseStore
	users         UserStore
	notifications *NotificationService
	chat          ChatSender
	mail          EmailSender
}

// NewAssignmentService creates a new AssignmentService. chat and mail may be
// nil when the corresponding channel is disabled.
func NewAssignmentService(assignments AssignmentStore, courses CourseStore, users UserStore, notifications *NotificationService, chat ChatSender, mail EmailSender) *AssignmentService {
	return &AssignmentService{
		assignments:   assignments,
		courses:       courses,
		users:         users,
		notifications: notifications,
		chat:          chat,
		mail:          mail,
	}
}

// Create persists a new assignment with status pending and no submissions.
func (s *AssignmentService) Create(ctx context.Context, in CreateAssignmentInput) (models.Assignment, error) {
	if in.Title == "" {
		return models.Assignment{}, errors.NewInvalidParamsError("title is required")
	}
	if in.CourseID == "" || in.TeacherID == "" {
		return models.Assignment{}, errors.NewInvalidParamsError("course_id and teacher_id are required")
	}
	if in.MaxGrade < 0 {
		return models.Assignment{}, errors.NewInvalidParamsError("max_grade cannot be negative")
	}

	if _, err := s.courses.GetByID(ctx, in.CourseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Assignment{}, errors.NewNotFoundError("course not found")
		}
		return models.Assignment{}, unavailable("error checking course", err)
	}
	if _, err := s.users.GetTeacher(ctx, in.TeacherID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Assignment{}, errors.NewNotFoundError("teacher not found")
		}
		return models.Assignment{}, unavailable("error checking teacher", err)
	}

	now := time.Now().UTC()
	a := models.Assignment{
		ID:          uuid.New().String(),
		CourseID:    in.CourseID,
		TeacherID:   in.TeacherID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Resources:   in.Resources,
		MaxGrade:    in.MaxGrade,
		Status:      models.AssignmentStatusPending,
		Submissions: []models.Submission{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return models.Assignment{}, unavailable("error saving assignment", err)
	}
	return a, nil
}

// List returns a page of assignments matching the filters.
func (s *AssignmentService) List(ctx context.Context, in ListAssignmentsInput) (AssignmentPage, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 {
		in.PageSize = defaultPageSize
	}
	if in.PageSize > maxPageSize {
		in.PageSize = maxPageSize
	}
	if in.SortBy == "" {
		in.SortBy = "created_at"
	}
	if !assignmentSortFields[in.SortBy] {
		return AssignmentPage{}, errors.NewInvalidParamsError("unsupported sort field: " + in.SortBy)
	}
	switch in.Order {
	case "":
		in.Order = "desc"
	case "asc", "desc":
	default:
		return AssignmentPage{}, errors.NewInvalidParamsError("order must be asc or desc")
	}

	items, total, err := s.assignments.List(ctx, in)
	if err != nil {
		return AssignmentPage{}, unavailable("error listing assignments", err)
	}

	pageCount := (total + in.PageSize - 1) / in.PageSize
	return AssignmentPage{
		Items:     items,
		Total:     total,
		Page:      in.Page,
		PageSize:  in.PageSize,
		PageCount: pageCount,
	}, nil
}

// Submit appends a new submission for studentID. The duplicate check is
// enforced by the store's conditional write so that two concurrent submits
// by the same student cannot both land.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID, studentID string, files []string) (models.Assignment, error) {
	if len(files) == 0 {
		return models.Assignment{}, errors.NewInvalidParamsError("at least one file is required")
	}
	if assignmentID == "" || studentID == "" {
		return models.Assignment{}, errors.NewInvalidParamsError("assignment_id and student_id are required")
	}

	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Assignment{}, errors.NewNotFoundError("assignment not found")
		}
		return models.Assignment{}, unavailable("error loading assignment", err)
	}

	now := time.Now().UTC()
	if a.DueDate != nil && now.After(*a.DueDate) {
		return models.Assignment{}, errors.NewBusinessRuleError("deadline passed")
	}
	if _, idx := a.SubmissionFor(studentID); idx >= 0 {
		return models.Assignment{}, errors.NewConflictError("student already submitted this assignment")
	}

	sub := models.Submission{
		StudentID:   studentID,
		Files:       files,
		SubmittedAt: now,
	}
	updated, err := s.assignments.AppendSubmission(ctx, assignmentID, sub, now)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateSubmission):
			// The list changed between our read and the write; the
			// conditional predicate caught the race.
			return models.Assignment{}, errors.NewConflictError("student already submitted this assignment")
		case errors.Is(err, ErrNotFound):
			return models.Assignment{}, errors.NewNotFoundError("assignment not found")
		default:
			return models.Assignment{}, unavailable("error saving submission", err)
		}
	}

	s.notifySubmitted(ctx, updated, studentID)
	return updated, nil
}

// Grade attaches a grade and optional feedback to the student's submission
// and recomputes the assignment status. The recomputation runs on every
// call; it is the only mechanism that flips the status.
func (s *AssignmentService) Grade(ctx context.Context, assignmentID, studentID string, grade float64, feedback string) (models.Assignment, error) {
	if assignmentID == "" || studentID == "" {
		return models.Assignment{}, errors.NewInvalidParamsError("assignment_id and student_id are required")
	}

	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Assignment{}, errors.NewNotFoundError("assignment not found")
		}
		return models.Assignment{}, unavailable("error loading assignment", err)
	}

	if grade < 0 {
		return models.Assignment{}, errors.NewBusinessRuleError("grade cannot be negative")
	}
	if grade > a.MaxGrade {
		return models.Assignment{}, errors.NewBusinessRuleError(fmt.Sprintf("grade exceeds maximum of %v", a.MaxGrade))
	}

	_, idx := a.SubmissionFor(studentID)
	if idx < 0 {
		return models.Assignment{}, errors.NewNotFoundError("submission not found")
	}

	g := grade
	a.Submissions[idx].Grade = &g
	a.Submissions[idx].Feedback = feedback
	a.Status = models.ComputeStatus(a.Submissions)

	now := time.Now().UTC()
	if err := s.assignments.ReplaceSubmissions(ctx, assignmentID, a.Submissions, a.Status, now); err != nil {
		return models.Assignment{}, unavailable("error saving grade", err)
	}
	a.UpdatedAt = now

	s.notifyGraded(ctx, a, studentID, grade)
	return a, nil
}

// notifySubmitted informs the teacher about a new submission. Best-effort:
// failures are logged and never change the submit outcome.
func (s *AssignmentService) notifySubmitted(ctx context.Context, a models.Assignment, studentID string) {
	if s.notifications != nil {
		_, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:   a.TeacherID,
			UserType: models.UserTypeTeacher,
			Type:     models.NotificationAssignmentSubmitted,
			Title:    "New submission",
			Message:  fmt.Sprintf("A student submitted %q", a.Title),
			Link:     "/assignments/" + a.ID,
			Metadata: map[string]interface{}{
				"assignment_id": a.ID,
				"student_id":    studentID,
			},
		})
		if err != nil {
			logger.Warn("Failed to create submission notification for teacher %s: %v", a.TeacherID, err)
		}
	}
	if s.chat != nil {
		if err := s.chat.Send(a.TeacherID, fmt.Sprintf("New submission on %q", a.Title)); err != nil {
			logger.Warn("Failed to send submission chat message: %v", err)
		}
	}
}

// notifyGraded informs the student about their grade. Best-effort.
func (s *AssignmentService) notifyGraded(ctx context.Context, a models.Assignment, studentID string, grade float64) {
	if s.notifications != nil {
		_, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:   studentID,
			UserType: models.UserTypeStudent,
			Type:     models.NotificationAssignmentGraded,
			Title:    "Assignment graded",
			Message:  fmt.Sprintf("Your submission for %q was graded: %v/%v", a.Title, grade, a.MaxGrade),
			Link:     "/assignments/" + a.ID,
			Metadata: map[string]interface{}{
				"assignment_id": a.ID,
				"grade":         grade,
			},
		})
		if err != nil {
			logger.Warn("Failed to create grade notification for student %s: %v", studentID, err)
		}
	}
	if s.mail != nil {
		student, err := s.users.GetStudent(ctx, studentID)
		if err != nil {
			logger.Warn("Failed to load student %s for grade email: %v", studentID, err)
			return
		}
		subject, body := AssignmentGradedEmail(student.Name, a.Title, grade, a.MaxGrade)
		if err := s.mail.Queue(student.Email, subject, body); err != nil {
			logger.Warn("Failed to queue grade email to %s: %v", student.Email, err)
		}
	}
}
