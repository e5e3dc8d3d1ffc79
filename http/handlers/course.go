package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"classroom-module/http/response"
	"classroom-module/models"
)

// GetCourses retrieves all courses
func GetCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	courses, err := courseStore.List(r.Context())
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Error fetching courses")
		return
	}

	response.SuccessResponse(w, http.StatusOK, fmt.Sprintf("Retrieved %d courses", len(courses)), courses)
}

// GetCourseByID retrieves a specific course by ID
func GetCourseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	courseID := r.URL.Query().Get("id")
	if courseID == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	course, err := courseStore.GetByID(r.Context(), courseID)
	if err != nil {
		response.ErrorResponse(w, http.StatusNotFound, "Course not found")
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Course retrieved", course)
}

// CreateCourse creates a new course
func CreateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		TeacherID   string  `json:"teacher_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.Name == "" || req.Price < 0 {
		response.ErrorResponse(w, http.StatusBadRequest, "Name is required and price cannot be negative")
		return
	}

	now := time.Now().UTC()
	course := models.Course{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		TeacherID:        req.TeacherID,
		EnrolledStudents: []string{},
		TotalStudents:    0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := courseStore.Create(r.Context(), course); err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Error saving course")
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Course created", course)
}
