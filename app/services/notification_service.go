// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"

	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
)

// NotificationService sends customer-facing notifications about ticket
// lifecycle events. All sends are best effort; callers log failures and
// continue.
type NotificationService interface {
	NotifyTicketCreated(ctx context.Context, customer *models.Customer, ticket *models.Ticket) error
	NotifyTicketStatusChanged(ctx context.Context, customer *models.Customer, ticket *models.Ticket) error
	NotifyOnCall(ctx context.Context, mobile string, ticket *models.Ticket) error
}

// NotificationServiceImpl implements NotificationService on top of SMSService
type NotificationServiceImpl struct {
	sms SMSService
	cfg *config.SMSConfig
}

// NewNotificationService creates a new notification service
func NewNotificationService(sms SMSService, cfg *config.SMSConfig) NotificationService {
	return &NotificationServiceImpl{
		sms: sms,
		cfg: cfg,
	}
}

// NotifyTicketCreated tells the customer their ticket was opened
func (s *NotificationServiceImpl) NotifyTicketCreated(ctx context.Context, customer *models.Customer, ticket *models.Ticket) error {
	if !s.enabled() || customer.PhoneNumber == "" {
		return nil
	}
	message := fmt.Sprintf("Sayın %s, %s numaralı arıza kaydınız açılmıştır.", customer.FullName, ticket.TicketNumber)
	return s.sms.SendSMS(ctx, customer.PhoneNumber, message)
}

// NotifyTicketStatusChanged tells the customer their ticket moved to a new status
func (s *NotificationServiceImpl) NotifyTicketStatusChanged(ctx context.Context, customer *models.Customer, ticket *models.Ticket) error {
	if !s.enabled() || customer.PhoneNumber == "" {
		return nil
	}
	message := fmt.Sprintf("Sayın %s, %s numaralı kaydınızın durumu güncellendi: %s", customer.FullName, ticket.TicketNumber, ticket.StatusName)
	return s.sms.SendSMS(ctx, customer.PhoneNumber, message)
}

// NotifyOnCall pages the group's on-call mobile about a new ticket
func (s *NotificationServiceImpl) NotifyOnCall(ctx context.Context, mobile string, ticket *models.Ticket) error {
	if !s.enabled() || mobile == "" {
		return nil
	}
	message := fmt.Sprintf("Yeni arıza kaydı: %s - %s", ticket.TicketNumber, ticket.Title)
	return s.sms.SendSMS(ctx, mobile, message)
}

func (s *NotificationServiceImpl) enabled() bool {
	return s.cfg != nil && s.cfg.Enabled && s.sms != nil
}
