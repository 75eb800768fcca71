package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleHasPermission(t *testing.T) {
	t.Run("AdminHasEverything", func(t *testing.T) {
		for _, perm := range []string{
			PermTicketsCreate, PermTicketsView, PermTicketsUpdate,
			PermCustomers, PermUsersManage, PermShiftsManage,
			PermMessagesSend, PermReportsView,
		} {
			assert.True(t, RoleHasPermission(RoleAdmin, perm), perm)
		}
	})

	t.Run("Supervisor", func(t *testing.T) {
		assert.True(t, RoleHasPermission(RoleSupervisor, PermCustomers))
		assert.True(t, RoleHasPermission(RoleSupervisor, PermReportsView))
		assert.False(t, RoleHasPermission(RoleSupervisor, PermUsersManage))
	})

	t.Run("Agent", func(t *testing.T) {
		assert.True(t, RoleHasPermission(RoleAgent, PermTicketsCreate))
		assert.True(t, RoleHasPermission(RoleAgent, PermMessagesSend))
		assert.False(t, RoleHasPermission(RoleAgent, PermCustomers))
		assert.False(t, RoleHasPermission(RoleAgent, PermReportsView))
	})

	t.Run("UnknownRole", func(t *testing.T) {
		assert.False(t, RoleHasPermission("visitor", PermTicketsView))
	})
}

func TestShiftOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	shift := &Shift{StartsAt: base, EndsAt: base.Add(8 * time.Hour)}

	t.Run("Overlapping", func(t *testing.T) {
		other := &Shift{StartsAt: base.Add(4 * time.Hour), EndsAt: base.Add(12 * time.Hour)}
		assert.True(t, shift.Overlaps(other))
		assert.True(t, other.Overlaps(shift))
	})

	t.Run("Contained", func(t *testing.T) {
		other := &Shift{StartsAt: base.Add(2 * time.Hour), EndsAt: base.Add(3 * time.Hour)}
		assert.True(t, shift.Overlaps(other))
	})

	t.Run("BackToBack", func(t *testing.T) {
		other := &Shift{StartsAt: base.Add(8 * time.Hour), EndsAt: base.Add(16 * time.Hour)}
		assert.False(t, shift.Overlaps(other))
	})

	t.Run("Disjoint", func(t *testing.T) {
		other := &Shift{StartsAt: base.Add(24 * time.Hour), EndsAt: base.Add(32 * time.Hour)}
		assert.False(t, shift.Overlaps(other))
	})
}
