package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsClosedStatus(t *testing.T) {
	closed := []string{"kapandı", "kapalı", "çözüldü", "iptal edildi"}

	t.Run("OpenStatuses", func(t *testing.T) {
		assert.False(t, IsClosedStatus("açık", closed))
		assert.False(t, IsClosedStatus("beklemede", closed))
		assert.False(t, IsClosedStatus("", closed))
	})

	t.Run("ExactClosedStatuses", func(t *testing.T) {
		for _, s := range closed {
			assert.True(t, IsClosedStatus(s, closed), s)
		}
	})

	t.Run("SubstringMatch", func(t *testing.T) {
		assert.True(t, IsClosedStatus("Kapandı (Mükerrer)", closed))
		assert.True(t, IsClosedStatus("otomatik kapandı", closed))
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		assert.True(t, IsClosedStatus("Kapalı", closed))
		assert.True(t, IsClosedStatus("ÇÖZÜLDÜ", closed))
	})

	t.Run("EmptyClosedEntryIgnored", func(t *testing.T) {
		assert.False(t, IsClosedStatus("açık", []string{""}))
	})
}

func TestTicketIsClosed(t *testing.T) {
	closed := []string{"kapandı"}
	assert.True(t, (&Ticket{StatusName: "kapandı"}).IsClosed(closed))
	assert.False(t, (&Ticket{StatusName: TicketStatusOpen}).IsClosed(closed))
}
