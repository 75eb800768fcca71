package businessflow

import (
	"bytes"
	"testing"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/eylemk/santral/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestReportFlow(testDB *testingutil.TestDB) ReportFlow {
	return NewReportFlow(
		repository.NewTicketRepository(testDB.DB),
		repository.NewCustomerRepository(testDB.DB),
		testTicketingConfig(),
	)
}

func TestReportFlowTicketReport(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestReportFlow(testDB)

		customer, err := fixtures.CreateTestCustomer("DEV-100")
		require.NoError(t, err)
		ariza, err := fixtures.CreateTestCategory("Arıza")
		require.NoError(t, err)
		talep, err := fixtures.CreateTestCategory("Talep")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := fixtures.CreateTestTicket(customer, ariza.ID, models.TicketStatusOpen, nil)
			require.NoError(t, err)
		}
		_, err = fixtures.CreateTestTicket(customer, ariza.ID, "kapandı", nil)
		require.NoError(t, err)
		_, err = fixtures.CreateTestTicket(customer, talep.ID, "kapandı", nil)
		require.NoError(t, err)

		t.Run("Totals", func(t *testing.T) {
			res, err := flow.TicketReport(ctx, &dto.TicketReportRequest{})
			require.NoError(t, err)
			assert.Equal(t, int64(5), res.Total)

			byStatus := map[string]int64{}
			for _, row := range res.ByStatus {
				byStatus[row.StatusName] = row.Count
			}
			assert.Equal(t, int64(3), byStatus[models.TicketStatusOpen])
			assert.Equal(t, int64(2), byStatus["kapandı"])

			byGroup := map[string]int64{}
			for _, row := range res.ByGroup {
				byGroup[row.GroupName] = row.Count
			}
			assert.Equal(t, int64(4), byGroup["Arıza"])
			assert.Equal(t, int64(1), byGroup["Talep"])
		})

		t.Run("FilterByGroup", func(t *testing.T) {
			res, err := flow.TicketReport(ctx, &dto.TicketReportRequest{GroupID: &talep.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), res.Total)
		})

		t.Run("InvalidDateRange", func(t *testing.T) {
			start := utils.UTCNow()
			end := start.Add(-time.Hour)
			_, err := flow.TicketReport(ctx, &dto.TicketReportRequest{StartDate: &start, EndDate: &end})
			require.Error(t, err)
			assert.True(t, IsStartDateAfterEndDate(err))
		})

		t.Run("Export", func(t *testing.T) {
			filename, data, err := flow.ExportTicketsXLSX(ctx, &dto.TicketReportRequest{})
			require.NoError(t, err)
			assert.Contains(t, filename, ".xlsx")
			require.NotEmpty(t, data)

			// The workbook opens and carries all tickets plus a summary sheet
			f, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer f.Close()

			rows, err := f.GetRows("Tickets")
			require.NoError(t, err)
			assert.Len(t, rows, 6) // header + 5 tickets

			summary, err := f.GetRows("Summary")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(summary), 3) // header + 2 statuses
		})

		return nil
	})
	require.NoError(t, err)
}
