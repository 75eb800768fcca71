package services

import (
	"context"
	"testing"

	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSMSService(t *testing.T) {
	mock := NewMockSMSService()
	ctx := context.Background()

	require.NoError(t, mock.SendSMS(ctx, "+905551112233", "merhaba"))
	require.NoError(t, mock.SendBulk(ctx, []string{"+905551112234", "+905551112235"}, "duyuru"))

	require.Len(t, mock.SentMessages, 3)
	assert.Equal(t, "+905551112233", mock.SentMessages[0].Recipient)
	assert.Equal(t, "merhaba", mock.SentMessages[0].Message)
	assert.Equal(t, "duyuru", mock.SentMessages[2].Message)
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	customer := &models.Customer{FullName: "Ayşe Yılmaz", PhoneNumber: "+905551112233"}
	ticket := &models.Ticket{TicketNumber: "2025-000042", Title: "Hat kesik", StatusName: "çözüldü"}

	t.Run("TicketCreated", func(t *testing.T) {
		mock := NewMockSMSService()
		svc := NewNotificationService(mock, &config.SMSConfig{Enabled: true})

		require.NoError(t, svc.NotifyTicketCreated(ctx, customer, ticket))
		require.Len(t, mock.SentMessages, 1)
		assert.Equal(t, customer.PhoneNumber, mock.SentMessages[0].Recipient)
		assert.Contains(t, mock.SentMessages[0].Message, "2025-000042")
		assert.Contains(t, mock.SentMessages[0].Message, "Ayşe Yılmaz")
	})

	t.Run("StatusChanged", func(t *testing.T) {
		mock := NewMockSMSService()
		svc := NewNotificationService(mock, &config.SMSConfig{Enabled: true})

		require.NoError(t, svc.NotifyTicketStatusChanged(ctx, customer, ticket))
		require.Len(t, mock.SentMessages, 1)
		assert.Contains(t, mock.SentMessages[0].Message, "çözüldü")
	})

	t.Run("OnCallPage", func(t *testing.T) {
		mock := NewMockSMSService()
		svc := NewNotificationService(mock, &config.SMSConfig{Enabled: true})

		require.NoError(t, svc.NotifyOnCall(ctx, "+905559998877", ticket))
		require.Len(t, mock.SentMessages, 1)
		assert.Equal(t, "+905559998877", mock.SentMessages[0].Recipient)
		assert.Contains(t, mock.SentMessages[0].Message, "Hat kesik")
	})

	t.Run("DisabledIsNoOp", func(t *testing.T) {
		mock := NewMockSMSService()
		svc := NewNotificationService(mock, &config.SMSConfig{Enabled: false})

		require.NoError(t, svc.NotifyTicketCreated(ctx, customer, ticket))
		require.NoError(t, svc.NotifyOnCall(ctx, "+905559998877", ticket))
		assert.Empty(t, mock.SentMessages)
	})

	t.Run("MissingPhoneIsSkipped", func(t *testing.T) {
		mock := NewMockSMSService()
		svc := NewNotificationService(mock, &config.SMSConfig{Enabled: true})

		require.NoError(t, svc.NotifyTicketCreated(ctx, &models.Customer{FullName: "X"}, ticket))
		require.NoError(t, svc.NotifyOnCall(ctx, "", ticket))
		assert.Empty(t, mock.SentMessages)
	})
}
