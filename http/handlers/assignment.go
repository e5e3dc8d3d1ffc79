package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"classroom-module/http/response"
	"classroom-module/services"
	"classroom-module/utils"
)

// CreateAssignment creates a new assignment for a course
func CreateAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		CourseID    string     `json:"course_id"`
		TeacherID   string     `json:"teacher_id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Resources   []string   `json:"resources"`
		MaxGrade    float64    `json:"max_grade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := assignmentService.Create(r.Context(), services.CreateAssignmentInput{
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Resources:   req.Resources,
		MaxGrade:    req.MaxGrade,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Assignment created", a)
}

// GetAssignments lists assignments with filters, pagination and sorting
func GetAssignments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	page, pageSize := utils.ParsePagination(r)
	in := services.ListAssignmentsInput{
		CourseID:   r.URL.Query().Get("course_id"),
		SearchText: r.URL.Query().Get("search"),
		Page:       page,
		PageSize:   pageSize,
		SortBy:     r.URL.Query().Get("sort_by"),
		Order:      r.URL.Query().Get("order"),
	}

	pageResult, err := assignmentService.List(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Assignments retrieved", pageResult)
}

// SubmitAssignment records a student's submission
func SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		AssignmentID string   `json:"assignment_id"`
		StudentID    string   `json:"student_id"`
		Files        []string `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := assignmentService.Submit(r.Context(), req.AssignmentID, req.StudentID, req.Files)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Submission recorded", a)
}

// GradeAssignment attaches a grade and feedback to a student's submission
func GradeAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		AssignmentID string  `json:"assignment_id"`
		StudentID    string  `json:"student_id"`
		Grade        float64 `json:"grade"`
		Feedback     string  `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := assignmentService.Grade(r.Context(), req.AssignmentID, req.StudentID, req.Grade, req.Feedback)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Submission graded", a)
}
