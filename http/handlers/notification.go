package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"classroom-module/http/response"
	"classroom-module/services"
)

// GetNotifications lists a user's notifications
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	filter := services.NotificationFilter{
		UnreadOnly: r.URL.Query().Get("unread_only") == "true",
		UserType:   r.URL.Query().Get("user_type"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			response.ErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	items, err := notificationService.ListForUser(r.Context(), userID, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, fmt.Sprintf("Retrieved %d notifications", len(items)), items)
}

// MarkNotificationRead marks one notification as read
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		NotificationID string `json:"notification_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := notificationService.MarkRead(r.Context(), req.NotificationID); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllNotificationsRead marks all of a user's notifications as read
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		UserType string `json:"user_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	count, err := notificationService.MarkAllRead(r.Context(), req.UserID, req.UserType)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, fmt.Sprintf("Marked %d notifications as read", count), map[string]int{"updated": count})
}

// DeleteNotification removes a notification
func DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		NotificationID string `json:"notification_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := notificationService.Delete(r.Context(), req.NotificationID); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Notification deleted", nil)
}
