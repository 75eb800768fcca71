package businessflow

import (
	"testing"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDuplicateGuard(testDB *testingutil.TestDB) DuplicateGuardFlow {
	return NewDuplicateGuardFlow(
		repository.NewTicketRepository(testDB.DB),
		repository.NewCustomerRepository(testDB.DB),
		testTicketingConfig(),
	)
}

func TestDuplicateGuard(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		guard := newTestDuplicateGuard(testDB)
		meta := NewClientMetadata("127.0.0.1", "test")

		customer, err := fixtures.CreateTestCustomer("DEV-100", "DEV-200")
		require.NoError(t, err)
		neighbor, err := fixtures.CreateTestCustomer("DEV-100")
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Arıza")
		require.NoError(t, err)

		circuit100 := "DEV-100"
		circuit200 := "DEV-200"

		t.Run("NoConflicts", func(t *testing.T) {
			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{
				CustomerID:    customer.ID,
				CircuitNumber: &circuit100,
			}, meta)
			require.NoError(t, err)
			assert.False(t, res.HasConflicts())
		})

		t.Run("CustomerConflictRegardlessOfCircuit", func(t *testing.T) {
			// Open ticket on a different circuit of the same customer
			ticket, err := fixtures.CreateTestTicket(customer, category.ID, "açık", &circuit200)
			require.NoError(t, err)
			defer testDB.DB.Delete(ticket)

			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{
				CustomerID:    customer.ID,
				CircuitNumber: &circuit100,
			}, meta)
			require.NoError(t, err)
			require.Len(t, res.CustomerConflicts, 1)
			assert.Equal(t, ticket.TicketNumber, res.CustomerConflicts[0].TicketNumber)
			assert.Empty(t, res.CircuitConflicts)
		})

		t.Run("CircuitConflictFromAnotherCustomer", func(t *testing.T) {
			// Open ticket on the shared circuit, reported by the neighbor
			ticket, err := fixtures.CreateTestTicket(neighbor, category.ID, "açık", &circuit100)
			require.NoError(t, err)
			defer testDB.DB.Delete(ticket)

			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{
				CustomerID:    customer.ID,
				CircuitNumber: &circuit100,
			}, meta)
			require.NoError(t, err)
			assert.Empty(t, res.CustomerConflicts)
			require.Len(t, res.CircuitConflicts, 1)
			assert.Equal(t, ticket.TicketNumber, res.CircuitConflicts[0].TicketNumber)
			assert.Equal(t, neighbor.ID, res.CircuitConflicts[0].CustomerID)
		})

		t.Run("OwnTicketNotDoubleReported", func(t *testing.T) {
			// The customer's own ticket on the checked circuit shows up once,
			// as a customer conflict
			ticket, err := fixtures.CreateTestTicket(customer, category.ID, "açık", &circuit100)
			require.NoError(t, err)
			defer testDB.DB.Delete(ticket)

			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{
				CustomerID:    customer.ID,
				CircuitNumber: &circuit100,
			}, meta)
			require.NoError(t, err)
			require.Len(t, res.CustomerConflicts, 1)
			assert.Empty(t, res.CircuitConflicts)
		})

		t.Run("ClosedStatusesDoNotConflict", func(t *testing.T) {
			for _, status := range []string{"kapandı", "Kapalı", "çözüldü", "iptal edildi", "Kapandı (Mükerrer)"} {
				ticket, err := fixtures.CreateTestTicket(customer, category.ID, status, &circuit100)
				require.NoError(t, err)
				defer testDB.DB.Delete(ticket)
			}

			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{
				CustomerID:    customer.ID,
				CircuitNumber: &circuit100,
			}, meta)
			require.NoError(t, err)
			assert.False(t, res.HasConflicts())
		})

		t.Run("NoCircuitChecksCustomerOnly", func(t *testing.T) {
			ticket, err := fixtures.CreateTestTicket(neighbor, category.ID, "açık", &circuit100)
			require.NoError(t, err)
			defer testDB.DB.Delete(ticket)

			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{
				CustomerID: customer.ID,
			}, meta)
			require.NoError(t, err)
			assert.False(t, res.HasConflicts())
		})

		t.Run("UnknownCustomer", func(t *testing.T) {
			res, err := guard.CheckDuplicates(ctx, &dto.DuplicateCheckRequest{CustomerID: 99999}, meta)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, IsCustomerNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
