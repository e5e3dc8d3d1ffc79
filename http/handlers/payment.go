package handlers

import (
	"encoding/json"
	"net/http"

	"classroom-module/http/response"
	"classroom-module/services"
)

// SubmitPayment records a new check payment, or returns the existing
// active one for idempotent retries
func SubmitPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		StudentID     string  `json:"student_id"`
		CourseID      string  `json:"course_id"`
		TeacherID     string  `json:"teacher_id"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		CheckImageURI string  `json:"check_image_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := paymentService.Submit(r.Context(), services.SubmitPaymentInput{
		StudentID:     req.StudentID,
		CourseID:      req.CourseID,
		TeacherID:     req.TeacherID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CheckImageURI: req.CheckImageURI,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyExists {
		status = http.StatusOK
	}
	response.SuccessResponse(w, status, result.Message, result)
}

// GetTeacherPayments lists a teacher's payments with an optional status filter
func GetTeacherPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	teacherID := r.URL.Query().Get("teacher_id")
	status := r.URL.Query().Get("status")

	payments, err := paymentService.ListForTeacher(r.Context(), teacherID, status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Payments retrieved", payments)
}

// ApprovePayment approves a pending payment and enrolls the student
func ApprovePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		PaymentID string `json:"payment_id"`
		TeacherID string `json:"teacher_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := paymentService.Approve(r.Context(), req.PaymentID, req.TeacherID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, result.Message, result)
}

// RejectPayment rejects a pending payment
func RejectPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		PaymentID string `json:"payment_id"`
		TeacherID string `json:"teacher_id"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := paymentService.Reject(r.Context(), req.PaymentID, req.TeacherID, req.Reason)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, result.Message, result)
}

// GetPaymentStatus returns the most recent payment for a (student, course) pair
func GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	studentID := r.URL.Query().Get("student_id")
	courseID := r.URL.Query().Get("course_id")

	status, err := paymentService.GetStatus(r.Context(), studentID, courseID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Payment status retrieved", status)
}

// ExportPayments writes the teacher's payments to an Excel report
func ExportPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	teacherID := r.URL.Query().Get("teacher_id")

	filePath, err := reportService.ExportTeacherPayments(r.Context(), teacherID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Report generated", map[string]string{"file": filePath})
}
