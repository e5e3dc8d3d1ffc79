package models

import "time"

// Assignment statuses
const (
	AssignmentStatusPending = "pending"
	AssignmentStatusGraded  = "graded"
)

// Assignment represents a course assignment with its embedded submissions.
// Submissions are owned by the assignment and are never addressed as
// independent records; they live in a single JSONB column and are only
// mutated through the assignment's own update path.
type Assignment struct {
	ID          string       `json:"id"`
	CourseID    string       `json:"course_id"`
	TeacherID   string       `json:"teacher_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Resources   []string     `json:"resources"`
	MaxGrade    float64      `json:"max_grade"`
	Status      string       `json:"status"`
	Submissions []Submission `json:"submissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Submission is a student's submission embedded in an Assignment.
// Grade stays nil until the teacher grades it.
type Submission struct {
	StudentID   string    `json:"student_id"`
	Files       []string  `json:"files"`
	SubmittedAt time.Time `json:"submitted_at"`
	Grade       *float64  `json:"grade,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
}

// IsGraded reports whether the submission has a final grade.
func (s Submission) IsGraded() bool {
	return s.Grade != nil
}

// SubmissionFor returns the submission belonging to studentID and its index,
// or -1 when the student has not submitted.
func (a Assignment) SubmissionFor(studentID string) (Submission, int) {
	for i, sub := range a.Submissions {
		if sub.StudentID == studentID {
			return sub, i
		}
	}
	return Submission{}, -1
}

// ComputeStatus derives the assignment status from its submissions: graded
// iff every submission carries a grade. An assignment with no submissions
// is always pending.
func ComputeStatus(submissions []Submission) string {
	if len(submissions) == 0 {
		return AssignmentStatusPending
	}
	for _, sub := range submissions {
		if !sub.IsGraded() {
			return AssignmentStatusPending
		}
	}
	return AssignmentStatusGraded
}
