package businessflow

import (
	"errors"
	"testing"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/app/services"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/eylemk/santral/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTicketFlow(testDB *testingutil.TestDB) TicketFlow {
	notifier := services.NewNotificationService(services.NewMockSMSService(), &config.SMSConfig{})
	return NewTicketFlow(
		testDB.DB,
		repository.NewTicketRepository(testDB.DB),
		repository.NewTicketLockRepository(testDB.DB),
		repository.NewCustomerRepository(testDB.DB),
		repository.NewTicketCategoryRepository(testDB.DB),
		notifier,
		nil,
		config.CacheConfig{},
	)
}

func finalizeRequest(ticketNumber string, customerID, groupID uint, circuit *string) *dto.FinalizeTicketRequest {
	return &dto.FinalizeTicketRequest{
		TicketNumber:  ticketNumber,
		CustomerID:    customerID,
		CircuitNumber: circuit,
		Title:         "Hat kesik",
		Content:       "Müşteri hattında ses yok",
		GroupID:       groupID,
	}
}

func TestTicketFlowFinalize(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestTicketFlow(testDB)
		meta := NewClientMetadata("127.0.0.1", "test")

		customer, err := fixtures.CreateTestCustomer("DEV-100", "DEV-200")
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Arıza")
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000001", "user:1", 3*time.Minute)
			require.NoError(t, err)

			circuit := "DEV-100"
			res, err := flow.Finalize(ctx, finalizeRequest("2025-000001", customer.ID, category.ID, &circuit), "user:1", meta)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, "2025-000001", res.TicketNumber)
			assert.Equal(t, models.TicketStatusOpen, res.StatusName)

			// Lock is consumed
			lockRepo := repository.NewTicketLockRepository(testDB.DB)
			lock, err := lockRepo.ByNumber(ctx, "2025-000001")
			require.NoError(t, err)
			require.NotNil(t, lock)
			assert.Equal(t, models.LockStatusUsed, lock.Status)
			assert.NotNil(t, lock.UsedAt)

			// Ticket is persisted under the reserved number
			ticketRepo := repository.NewTicketRepository(testDB.DB)
			ticket, err := ticketRepo.ByTicketNumber(ctx, "2025-000001")
			require.NoError(t, err)
			require.NotNil(t, ticket)
			assert.Equal(t, customer.ID, ticket.CustomerID)
			assert.Equal(t, "user:1", ticket.CreatedBy)
		})

		t.Run("DoubleFinalizeFails", func(t *testing.T) {
			circuit := "DEV-100"
			res, err := flow.Finalize(ctx, finalizeRequest("2025-000001", customer.ID, category.ID, &circuit), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsLockAlreadyUsed(err))
		})

		t.Run("UnknownReservation", func(t *testing.T) {
			res, err := flow.Finalize(ctx, finalizeRequest("2025-999999", customer.ID, category.ID, nil), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsLockExpired(err))
		})

		t.Run("ExpiredReservation", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000002", "user:1", -time.Minute)
			require.NoError(t, err)

			res, err := flow.Finalize(ctx, finalizeRequest("2025-000002", customer.ID, category.ID, nil), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsLockExpired(err))
		})

		t.Run("OwnershipMismatch", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000003", "user:2", 3*time.Minute)
			require.NoError(t, err)

			res, err := flow.Finalize(ctx, finalizeRequest("2025-000003", customer.ID, category.ID, nil), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsLockOwnershipMismatch(err))

			// The other operator's reservation survives the failed attempt
			lockRepo := repository.NewTicketLockRepository(testDB.DB)
			lock, err := lockRepo.ByNumber(ctx, "2025-000003")
			require.NoError(t, err)
			require.NotNil(t, lock)
			assert.Equal(t, models.LockStatusPending, lock.Status)
		})

		t.Run("CircuitNotOwned", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000004", "user:1", 3*time.Minute)
			require.NoError(t, err)

			circuit := "FOREIGN-1"
			res, err := flow.Finalize(ctx, finalizeRequest("2025-000004", customer.ID, category.ID, &circuit), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsCircuitNotOwned(err))

			// Failed validation keeps the reservation claimable
			lockRepo := repository.NewTicketLockRepository(testDB.DB)
			lock, err := lockRepo.ByNumber(ctx, "2025-000004")
			require.NoError(t, err)
			require.NotNil(t, lock)
			assert.Equal(t, models.LockStatusPending, lock.Status)
		})

		t.Run("UnknownCustomer", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000005", "user:1", 3*time.Minute)
			require.NoError(t, err)

			res, err := flow.Finalize(ctx, finalizeRequest("2025-000005", 99999, category.ID, nil), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsCustomerNotFound(err))
		})

		t.Run("UnknownCategory", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000006", "user:1", 3*time.Minute)
			require.NoError(t, err)

			res, err := flow.Finalize(ctx, finalizeRequest("2025-000006", customer.ID, 99999, nil), "user:1", meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsCategoryNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTicketFlowList(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestTicketFlow(testDB)

		customer, err := fixtures.CreateTestCustomer("DEV-100")
		require.NoError(t, err)
		other, err := fixtures.CreateTestCustomer("DEV-300")
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Arıza")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := fixtures.CreateTestTicket(customer, category.ID, models.TicketStatusOpen, nil)
			require.NoError(t, err)
		}
		_, err = fixtures.CreateTestTicket(other, category.ID, "kapandı", nil)
		require.NoError(t, err)

		t.Run("All", func(t *testing.T) {
			res, err := flow.ListTickets(ctx, &dto.ListTicketsRequest{})
			require.NoError(t, err)
			assert.Equal(t, int64(4), res.Total)
			assert.Len(t, res.Items, 4)
			// Enriched with customer data
			require.NotNil(t, res.Items[0].CustomerName)
		})

		t.Run("FilterByCustomer", func(t *testing.T) {
			res, err := flow.ListTickets(ctx, &dto.ListTicketsRequest{CustomerID: &customer.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(3), res.Total)
		})

		t.Run("FilterByStatus", func(t *testing.T) {
			status := "kapandı"
			res, err := flow.ListTickets(ctx, &dto.ListTicketsRequest{StatusName: &status})
			require.NoError(t, err)
			assert.Equal(t, int64(1), res.Total)
		})

		t.Run("InvalidDateRange", func(t *testing.T) {
			start := utils.UTCNow()
			end := start.Add(-time.Hour)
			_, err := flow.ListTickets(ctx, &dto.ListTicketsRequest{StartDate: &start, EndDate: &end})
			require.Error(t, err)
			assert.True(t, IsStartDateAfterEndDate(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTicketFlowUpdateStatus(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestTicketFlow(testDB)
		meta := NewClientMetadata("127.0.0.1", "test")

		customer, err := fixtures.CreateTestCustomer("DEV-100")
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Arıza")
		require.NoError(t, err)
		ticket, err := fixtures.CreateTestTicket(customer, category.ID, models.TicketStatusOpen, nil)
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			err := flow.UpdateStatus(ctx, ticket.ID, &dto.UpdateTicketStatusRequest{StatusName: "çözüldü"}, meta)
			require.NoError(t, err)

			ticketRepo := repository.NewTicketRepository(testDB.DB)
			updated, err := ticketRepo.ByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.Equal(t, "çözüldü", updated.StatusName)
		})

		t.Run("UnknownTicket", func(t *testing.T) {
			err := flow.UpdateStatus(ctx, 99999, &dto.UpdateTicketStatusRequest{StatusName: "çözüldü"}, meta)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTicketNotFound))
		})

		return nil
	})
	require.NoError(t, err)
}
