package db

import (
	"context"
	"database/sql"
	"fmt"

	"classroom-module/models"
	"classroom-module/services"
)

// UserStore is the postgres implementation of services.UserStore.
type UserStore struct{}

// NewUserStore creates a new UserStore.
func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) CreateStudent(ctx context.Context, st models.Student) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO students (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
		st.ID, st.Name, st.Email, st.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting student: %w", err)
	}
	return nil
}

func (s *UserStore) GetStudent(ctx context.Context, id string) (models.Student, error) {
	var st models.Student
	err := DB.QueryRowContext(ctx, `SELECT id, name, email, created_at FROM students WHERE id = $1`, id).
		Scan(&st.ID, &st.Name, &st.Email, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Student{}, services.ErrNotFound
	}
	if err != nil {
		return models.Student{}, fmt.Errorf("error scanning student: %w", err)
	}
	return st, nil
}

func (s *UserStore) CreateTeacher(ctx context.Context, t models.Teacher) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO teachers (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Email, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting teacher: %w", err)
	}
	return nil
}

func (s *UserStore) GetTeacher(ctx context.Context, id string) (models.Teacher, error) {
	var t models.Teacher
	err := DB.QueryRowContext(ctx, `SELECT id, name, email, created_at FROM teachers WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Email, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Teacher{}, services.ErrNotFound
	}
	if err != nil {
		return models.Teacher{}, fmt.Errorf("error scanning teacher: %w", err)
	}
	return t, nil
}
