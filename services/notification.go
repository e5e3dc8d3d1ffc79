package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classroom-module/errors"
	"classroom-module/models"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

// CreateNotificationInput carries the fields for a new notification.
type CreateNotificationInput struct {
	UserID   string
	UserType string
	Type     string
	Title    string
	Message  string
	Link     string
	Metadata map[string]interface{}
}

// NotificationFilter narrows ListForUser results.
type NotificationFilter struct {
	UnreadOnly bool
	UserType   string
	Limit      int
}

// NotificationService is the dispatcher for in-app notifications. Create is
// a pure append with no dedup; the calling workflow is responsible for
// calling it once per logical event. Whether a creation failure aborts the
// caller is the caller's decision, not the dispatcher's.
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// Create appends one unread notification record.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (models.Notification, error) {
	if in.UserID == "" || in.UserType == "" || in.Type == "" {
		return models.Notification{}, errors.NewInvalidParamsError("user_id, user_type and type are required")
	}

	n := models.Notification{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		UserType:  in.UserType,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		Read:      false,
		Metadata:  in.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return models.Notification{}, unavailable("error saving notification", err)
	}
	return n, nil
}

// MarkRead marks a notification as read. Marking an already-read
// notification is a no-op success; a missing one is NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.NewInvalidParamsError("notification id is required")
	}
	_, err := s.store.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errors.NewNotFoundError("notification not found")
		}
		return unavailable("error updating notification", err)
	}
	return nil
}

// MarkAllRead marks all of the user's unread notifications as read and
// returns how many were updated. userType may be empty to cover both roles.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID, userType string) (int, error) {
	if userID == "" {
		return 0, errors.NewInvalidParamsError("user_id is required")
	}
	n, err := s.store.MarkAllRead(ctx, userID, userType)
	if err != nil {
		return 0, unavailable("error updating notifications", err)
	}
	return n, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.NewInvalidParamsError("notification id is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errors.NewNotFoundError("notification not found")
		}
		return unavailable("error deleting notification", err)
	}
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, f NotificationFilter) ([]models.Notification, error) {
	if userID == "" {
		return nil, errors.NewInvalidParamsError("user_id is required")
	}
	if f.Limit < 1 {
		f.Limit = defaultNotificationLimit
	}
	if f.Limit > maxNotificationLimit {
		f.Limit = maxNotificationLimit
	}
	items, err := s.store.ListForUser(ctx, userID, f)
	if err != nil {
		return nil, unavailable("error listing notifications", err)
	}
	return items, nil
}
