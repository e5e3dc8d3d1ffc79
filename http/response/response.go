package response

import (
	"encoding/json"
	"log"
	"net/http"

	"classroom-module/errors"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// SuccessResponse sends a success response with given status code, message, and data
func SuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	response := StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	SendJSON(w, statusCode, response)
}

// ErrorResponse sends an error response with given status code and error message
func ErrorResponse(w http.ResponseWriter, statusCode int, errorMsg string) {
	response := StandardResponse{
		Status: "error",
		Error:  errorMsg,
	}
	SendJSON(w, statusCode, response)
}

// FromError maps an application error to its HTTP status and sends it,
// including the stable error kind for programmatic handling.
func FromError(w http.ResponseWriter, err error) {
	kind := errors.KindOf(err)
	response := StandardResponse{
		Status: "error",
		Error:  errors.MessageOf(err),
		Kind:   kind.String(),
	}
	SendJSON(w, statusFor(kind), response)
}

func statusFor(kind errors.Kind) int {
	switch kind {
	case errors.Invalid:
		return http.StatusBadRequest
	case errors.NotFound:
		return http.StatusNotFound
	case errors.Conflict:
		return http.StatusConflict
	case errors.Unauthorized, errors.Forbidden:
		return http.StatusForbidden
	case errors.BusinessRule:
		return http.StatusUnprocessableEntity
	case errors.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SendJSON encodes and sends a JSON response
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
