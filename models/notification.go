package models

import "time"

// Notification types
const (
	NotificationPaymentSubmitted    = "payment_submitted"
	NotificationPaymentApproved     = "payment_approved"
	NotificationPaymentRejected     = "payment_rejected"
	NotificationAssignmentSubmitted = "assignment_submitted"
	NotificationAssignmentGraded    = "assignment_graded"
)

// Notification is an in-app notification owned by its recipient. Records
// are append-only; only the Read flag is ever mutated afterwards.
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	UserType  string                 `json:"user_type"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Link      string                 `json:"link,omitempty"`
	Read      bool                   `json:"read"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
