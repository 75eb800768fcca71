package dto

// SendMessageRequest sends an internal note to another operator
type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required,max=2000"`
}

// MessageItem represents a message row in inbox listings
type MessageItem struct {
	ID         uint    `json:"id"`
	SenderID   uint    `json:"sender_id"`
	SenderName *string `json:"sender_name,omitempty"`
	Body       string  `json:"body"`
	ReadAt     *string `json:"read_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// InboxResponse returns the operator's messages, newest first
type InboxResponse struct {
	Message string        `json:"message"`
	Items   []MessageItem `json:"items"`
	Unread  int64         `json:"unread"`
}
