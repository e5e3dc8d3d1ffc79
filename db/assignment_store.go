package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"classroom-module/models"
	"classroom-module/services"
)

// AssignmentStore is the postgres implementation of
// services.AssignmentStore. Submissions live in a JSONB column on the
// assignment row, so every submission mutation is one atomic document
// update.
type AssignmentStore struct{}

// NewAssignmentStore creates a new AssignmentStore.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{}
}

const assignmentColumns = `id, course_id, teacher_id, title, description, due_date, resources, max_grade, status, submissions, created_at, updated_at`

func (s *AssignmentStore) Create(ctx context.Context, a models.Assignment) error {
	resources, err := json.Marshal(a.Resources)
	if err != nil {
		return fmt.Errorf("error encoding resources: %w", err)
	}
	submissions, err := json.Marshal(a.Submissions)
	if err != nil {
		return fmt.Errorf("error encoding submissions: %w", err)
	}

	_, err = DB.ExecContext(ctx, `
		INSERT INTO assignments (id, course_id, teacher_id, title, description, due_date, resources, max_grade, status, submissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.CourseID, a.TeacherID, a.Title, a.Description, a.DueDate,
		resources, a.MaxGrade, a.Status, submissions, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting assignment: %w", err)
	}
	return nil
}

func (s *AssignmentStore) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	row := DB.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id)
	return scanAssignment(row)
}

// AppendSubmission performs the conditional write that guards the
// one-submission-per-student invariant: the append only happens when the
// current submission list still lacks an entry for the student.
func (s *AssignmentStore) AppendSubmission(ctx context.Context, assignmentID string, sub models.Submission, now time.Time) (models.Assignment, error) {
	encoded, err := json.Marshal(sub)
	if err != nil {
		return models.Assignment{}, fmt.Errorf("error encoding submission: %w", err)
	}

	row := DB.QueryRowContext(ctx, `
		UPDATE assignments
		SET submissions = submissions || $2::jsonb, updated_at = $3
		WHERE id = $1
		  AND NOT (submissions @> jsonb_build_array(jsonb_build_object('student_id', $4::text)))
		RETURNING `+assignmentColumns,
		assignmentID, string(encoded), now, sub.StudentID)

	updated, err := scanAssignment(row)
	if err == nil {
		return updated, nil
	}
	if err != services.ErrNotFound {
		return models.Assignment{}, err
	}

	// No row updated: either the assignment is gone or the predicate
	// rejected a duplicate.
	var exists bool
	if err := DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM assignments WHERE id = $1)`, assignmentID).Scan(&exists); err != nil {
		return models.Assignment{}, fmt.Errorf("error checking assignment: %w", err)
	}
	if !exists {
		return models.Assignment{}, services.ErrNotFound
	}
	return models.Assignment{}, services.ErrDuplicateSubmission
}

func (s *AssignmentStore) ReplaceSubmissions(ctx context.Context, assignmentID string, subs []models.Submission, status string, now time.Time) error {
	encoded, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("error encoding submissions: %w", err)
	}

	res, err := DB.ExecContext(ctx, `
		UPDATE assignments SET submissions = $2, status = $3, updated_at = $4 WHERE id = $1`,
		assignmentID, encoded, status, now)
	if err != nil {
		return fmt.Errorf("error updating submissions: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *AssignmentStore) List(ctx context.Context, in services.ListAssignmentsInput) ([]models.Assignment, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if in.CourseID != "" {
		args = append(args, in.CourseID)
		where += fmt.Sprintf(" AND course_id = $%d", len(args))
	}
	if in.SearchText != "" {
		args = append(args, "%"+in.SearchText+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting assignments: %w", err)
	}

	// SortBy and Order come from the service's allow-list, never raw input.
	query := fmt.Sprintf(`SELECT %s FROM assignments %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		assignmentColumns, where, in.SortBy, in.Order, len(args)+1, len(args)+2)
	args = append(args, in.PageSize, (in.Page-1)*in.PageSize)

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	items := []models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading assignments: %w", err)
	}
	return items, total, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssignment(row rowScanner) (models.Assignment, error) {
	var a models.Assignment
	var resources, submissions []byte
	err := row.Scan(&a.ID, &a.CourseID, &a.TeacherID, &a.Title, &a.Description, &a.DueDate,
		&resources, &a.MaxGrade, &a.Status, &submissions, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Assignment{}, services.ErrNotFound
	}
	if err != nil {
		return models.Assignment{}, fmt.Errorf("error scanning assignment: %w", err)
	}
	if err := json.Unmarshal(resources, &a.Resources); err != nil {
		return models.Assignment{}, fmt.Errorf("error decoding resources: %w", err)
	}
	if err := json.Unmarshal(submissions, &a.Submissions); err != nil {
		return models.Assignment{}, fmt.Errorf("error decoding submissions: %w", err)
	}
	return a, nil
}
