package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"classroom-module/models"
	"classroom-module/services"
)

// NotificationStore is the postgres implementation of
// services.NotificationStore.
type NotificationStore struct{}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

const notificationColumns = `id, user_id, user_type, type, title, message, link, read, metadata, created_at`

func (s *NotificationStore) Create(ctx context.Context, n models.Notification) error {
	var metadata []byte
	if n.Metadata != nil {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("error encoding metadata: %w", err)
		}
	}
	_, err := DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, user_type, type, title, message, link, read, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.UserID, n.UserType, n.Type, n.Title, n.Message, n.Link, n.Read, metadata, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting notification: %w", err)
	}
	return nil
}

func (s *NotificationStore) GetByID(ctx context.Context, id string) (models.Notification, error) {
	row := DB.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	return scanNotification(row)
}

// MarkRead only touches unread rows; the caller distinguishes "already
// read" from "missing".
func (s *NotificationStore) MarkRead(ctx context.Context, id string) (bool, error) {
	res, err := DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND read = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("error updating notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error updating notification: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking notification: %w", err)
	}
	if !exists {
		return false, services.ErrNotFound
	}
	return false, nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID, userType string) (int, error) {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`
	args := []interface{}{userID}
	if userType != "" {
		query += ` AND user_type = $2`
		args = append(args, userType)
	}
	res, err := DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error updating notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error updating notifications: %w", err)
	}
	return int(n), nil
}

func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	res, err := DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *NotificationStore) ListForUser(ctx context.Context, userID string, f services.NotificationFilter) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []interface{}{userID}
	if f.UnreadOnly {
		query += ` AND read = FALSE`
	}
	if f.UserType != "" {
		args = append(args, f.UserType)
		query += fmt.Sprintf(` AND user_type = $%d`, len(args))
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	items := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading notifications: %w", err)
	}
	return items, nil
}

func scanNotification(row rowScanner) (models.Notification, error) {
	var n models.Notification
	var link sql.NullString
	var metadata []byte
	err := row.Scan(&n.ID, &n.UserID, &n.UserType, &n.Type, &n.Title, &n.Message,
		&link, &n.Read, &metadata, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Notification{}, services.ErrNotFound
	}
	if err != nil {
		return models.Notification{}, fmt.Errorf("error scanning notification: %w", err)
	}
	n.Link = link.String
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return models.Notification{}, fmt.Errorf("error decoding metadata: %w", err)
		}
	}
	return n, nil
}
