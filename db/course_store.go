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

// CourseStore is the postgres implementation of services.CourseStore.
type CourseStore struct{}

// NewCourseStore creates a new CourseStore.
func NewCourseStore() *CourseStore {
	return &CourseStore{}
}

const courseColumns = `id, name, description, price, teacher_id, enrolled_students, total_students, created_at, updated_at`

func (s *CourseStore) Create(ctx context.Context, c models.Course) error {
	enrolled, err := json.Marshal(c.EnrolledStudents)
	if err != nil {
		return fmt.Errorf("error encoding enrolled students: %w", err)
	}
	_, err = DB.ExecContext(ctx, `
		INSERT INTO courses (id, name, description, price, teacher_id, enrolled_students, total_students, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Description, c.Price, c.TeacherID, enrolled, c.TotalStudents, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting course: %w", err)
	}
	return nil
}

func (s *CourseStore) GetByID(ctx context.Context, id string) (models.Course, error) {
	row := DB.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

func (s *CourseStore) List(ctx context.Context) ([]models.Course, error) {
	rows, err := DB.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	items := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading courses: %w", err)
	}
	return items, nil
}

// Enroll appends the student only when not yet present and recounts
// total_students in the same statement, keeping the pair consistent and
// the operation idempotent.
func (s *CourseStore) Enroll(ctx context.Context, courseID, studentID string) (bool, error) {
	res, err := DB.ExecContext(ctx, `
		UPDATE courses
		SET enrolled_students = enrolled_students || jsonb_build_array($2::text),
		    total_students = jsonb_array_length(enrolled_students) + 1,
		    updated_at = $3
		WHERE id = $1 AND NOT (enrolled_students ? $2)`,
		courseID, studentID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("error enrolling student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error enrolling student: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// Nothing updated: already enrolled, or the course does not exist.
	var exists bool
	if err := DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking course: %w", err)
	}
	if !exists {
		return false, services.ErrNotFound
	}
	return false, nil
}

func scanCourse(row rowScanner) (models.Course, error) {
	var c models.Course
	var enrolled []byte
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.TeacherID,
		&enrolled, &c.TotalStudents, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Course{}, services.ErrNotFound
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("error scanning course: %w", err)
	}
	if err := json.Unmarshal(enrolled, &c.EnrolledStudents); err != nil {
		return models.Course{}, fmt.Errorf("error decoding enrolled students: %w", err)
	}
	return c, nil
}
