package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"classroom-module/http/response"
	"classroom-module/models"
	"classroom-module/utils"
)

// CreateStudent registers a new student
func CreateStudent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := utils.ValidateName(req.Name); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	student := models.Student{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := userStore.CreateStudent(r.Context(), student); err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Error saving student")
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Student created", student)
}

// CreateTeacher registers a new teacher
func CreateTeacher(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := utils.ValidateName(req.Name); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher := models.Teacher{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := userStore.CreateTeacher(r.Context(), teacher); err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Error saving teacher")
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Teacher created", teacher)
}
