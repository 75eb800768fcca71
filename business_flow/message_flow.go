package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
)

// MessageFlow covers internal notes between operators
type MessageFlow interface {
	Send(ctx context.Context, senderID uint, req *dto.SendMessageRequest, metadata *ClientMetadata) (*dto.MessageItem, error)
	Inbox(ctx context.Context, recipientID uint, page, pageSize uint) (*dto.InboxResponse, error)
	MarkRead(ctx context.Context, messageID, recipientID uint) error
}

// MessageFlowImpl implements MessageFlow
type MessageFlowImpl struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageFlow(messageRepo repository.MessageRepository, userRepo repository.UserRepository) MessageFlow {
	return &MessageFlowImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// Send delivers an internal note to another operator
func (f *MessageFlowImpl) Send(ctx context.Context, senderID uint, req *dto.SendMessageRequest, metadata *ClientMetadata) (*dto.MessageItem, error) {
	sender, err := getUser(ctx, f.userRepo, senderID)
	if err != nil {
		return nil, err
	}

	recipient, err := f.userRepo.ByID(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || !utils.IsTrue(recipient.IsActive) {
		return nil, NewBusinessError("RECIPIENT_NOT_FOUND", "Message recipient not found", ErrRecipientNotFound)
	}

	message := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Body:        req.Body,
	}
	if err := f.messageRepo.Save(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	item := toMessageItem(message, sender)
	return &item, nil
}

// Inbox returns the operator's messages, newest first, with the unread count
func (f *MessageFlowImpl) Inbox(ctx context.Context, recipientID uint, page, pageSize uint) (*dto.InboxResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	rows, err := f.messageRepo.Inbox(ctx, recipientID, int(pageSize), int((page-1)*pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to load inbox: %w", err)
	}

	unreadOnly := true
	unread, err := f.messageRepo.Count(ctx, models.MessageFilter{
		RecipientID: &recipientID,
		Unread:      &unreadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	items := make([]dto.MessageItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, toMessageItem(m, m.Sender))
	}
	return &dto.InboxResponse{
		Message: "Inbox retrieved successfully",
		Items:   items,
		Unread:  unread,
	}, nil
}

// MarkRead stamps the message as read. Only the recipient can mark it, and
// marking an already-read message is a no-op.
func (f *MessageFlowImpl) MarkRead(ctx context.Context, messageID, recipientID uint) error {
	updated, err := f.messageRepo.MarkRead(ctx, messageID, recipientID, utils.UTCNow())
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if !updated {
		message, err := f.messageRepo.ByID(ctx, messageID)
		if err != nil {
			return err
		}
		if message == nil || message.RecipientID != recipientID {
			return NewBusinessError("MESSAGE_NOT_FOUND", "Message not found", ErrRecipientNotFound)
		}
		// already read
	}
	return nil
}

func toMessageItem(m *models.Message, sender *models.User) dto.MessageItem {
	item := dto.MessageItem{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if sender != nil {
		item.SenderName = &sender.FullName
	}
	if m.ReadAt != nil {
		readAt := m.ReadAt.Format(time.RFC3339)
		item.ReadAt = &readAt
	}
	return item
}
