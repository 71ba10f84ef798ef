package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

var (
	ErrNotificationNotFound = apperr.NotFound("notification not found")
)

type NotificationRepository interface {
	Create(n *model.Notification) error
	// DeleteFor removes the notifications sender produced on a post with the
	// given type, e.g. when a like is withdrawn.
	DeleteFor(senderID, recipientID, postID, notificationType string) error
	Recent(recipientID string, limit int) ([]*model.Notification, error)
	MarkRead(recipientID, notificationID string) error
	MarkAllRead(recipientID string) error
	UnreadCount(recipientID string) (int, error)
	Delete(recipientID, notificationID string) error
	WithTx(tx *sqlx.Tx) NotificationRepository
}

type notificationRepository struct {
	db sqlx.Ext
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *sqlx.Tx) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(n *model.Notification) error {
	query := `INSERT INTO notifications (id, sender_id, recipient_id, post_id, type, text, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query, n.ID, n.SenderID, n.RecipientID, n.PostID, n.Type, n.Text, n.Read, n.CreatedAt)
	return err
}

func (r *notificationRepository) DeleteFor(senderID, recipientID, postID, notificationType string) error {
	query := `DELETE FROM notifications WHERE sender_id = $1 AND recipient_id = $2 AND post_id = $3 AND type = $4`
	_, err := r.db.Exec(query, senderID, recipientID, postID, notificationType)
	return err
}

func (r *notificationRepository) Recent(recipientID string, limit int) ([]*model.Notification, error) {
	notifications := []*model.Notification{}
	query := `SELECT * FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := sqlx.Select(r.db, &notifications, query, recipientID, limit)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(recipientID, notificationID string) error {
	result, err := r.db.Exec(`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`, notificationID, recipientID)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrNotificationNotFound)
}

func (r *notificationRepository) MarkAllRead(recipientID string) error {
	_, err := r.db.Exec(`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`, recipientID)
	return err
}

func (r *notificationRepository) UnreadCount(recipientID string) (int, error) {
	var count int
	err := r.db.QueryRowx(`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`, recipientID).Scan(&count)
	return count, err
}

func (r *notificationRepository) Delete(recipientID, notificationID string) error {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, notificationID, recipientID)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrNotificationNotFound)
}
