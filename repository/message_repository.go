package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eylemk/santral/models"
	"gorm.io/gorm"
)

// MessageRepositoryImpl implements MessageRepository interface
type MessageRepositoryImpl struct {
	*BaseRepository[models.Message, models.MessageFilter]
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Message, models.MessageFilter](db),
	}
}

// Inbox lists messages addressed to the recipient, newest first, with the
// sender preloaded for display
func (r *MessageRepositoryImpl) Inbox(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Message, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Message{}).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead stamps a message as read by its recipient. The recipient predicate
// prevents marking someone else's mail; reports whether a row was updated.
func (r *MessageRepositoryImpl) MarkRead(ctx context.Context, messageID, recipientID uint, readAt time.Time) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.Message{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", messageID, recipientID).
		Updates(map[string]any{
			"read_at":    readAt,
			"updated_at": readAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark message %d read: %w", messageID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *MessageRepositoryImpl) applyFilter(query *gorm.DB, filter models.MessageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.SenderID != nil {
		query = query.Where("sender_id = ?", *filter.SenderID)
	}
	if filter.RecipientID != nil {
		query = query.Where("recipient_id = ?", *filter.RecipientID)
	}
	if filter.Unread != nil && *filter.Unread {
		query = query.Where("read_at IS NULL")
	}
	return query
}

// ByFilter retrieves messages based on filter criteria
func (r *MessageRepositoryImpl) ByFilter(ctx context.Context, filter models.MessageFilter, orderBy string, limit, offset int) ([]*models.Message, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Message{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of messages matching filter
func (r *MessageRepositoryImpl) Count(ctx context.Context, filter models.MessageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Message{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any message matches the filter
func (r *MessageRepositoryImpl) Exists(ctx context.Context, filter models.MessageFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
