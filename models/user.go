package models

import "time"

// User types used on notifications and chat messages.
const (
	UserTypeStudent = "student"
	UserTypeTeacher = "teacher"
)

// Student represents a student account.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Teacher represents a teacher account.
type Teacher struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
