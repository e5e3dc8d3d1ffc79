package models

import "time"

// Course represents a course offered on the platform. EnrolledStudents is a
// duplicate-free list and TotalStudents always equals its length after any
// successful mutation; both are only written by the payment approval flow.
type Course struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	TeacherID        string    `json:"teacher_id"`
	EnrolledStudents []string  `json:"enrolled_students"`
	TotalStudents    int       `json:"total_students"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsEnrolled reports whether studentID is already enrolled.
func (c Course) IsEnrolled(studentID string) bool {
	for _, id := range c.EnrolledStudents {
		if id == studentID {
			return true
		}
	}
	return false
}
