package businessflow

import (
	"testing"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/eylemk/santral/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := NewMessageFlow(repository.NewMessageRepository(testDB.DB), repository.NewUserRepository(testDB.DB))
		meta := NewClientMetadata("127.0.0.1", "test")

		sender, err := fixtures.CreateTestUser(models.RoleAgent)
		require.NoError(t, err)
		recipient, err := fixtures.CreateTestUser(models.RoleSupervisor)
		require.NoError(t, err)

		t.Run("Send", func(t *testing.T) {
			item, err := flow.Send(ctx, sender.ID, &dto.SendMessageRequest{
				RecipientID: recipient.ID,
				Body:        "Vardiya değişimi saat 16:00'da",
			}, meta)
			require.NoError(t, err)
			assert.Equal(t, sender.ID, item.SenderID)
			assert.Nil(t, item.ReadAt)
		})

		t.Run("SendToUnknownRecipient", func(t *testing.T) {
			item, err := flow.Send(ctx, sender.ID, &dto.SendMessageRequest{
				RecipientID: 99999,
				Body:        "kayıp",
			}, meta)
			assert.Nil(t, item)
			require.Error(t, err)
		})

		t.Run("SendToInactiveRecipient", func(t *testing.T) {
			inactive, err := fixtures.CreateTestUser(models.RoleAgent)
			require.NoError(t, err)
			inactive.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(inactive).Error)

			item, err := flow.Send(ctx, sender.ID, &dto.SendMessageRequest{
				RecipientID: inactive.ID,
				Body:        "duymayacak",
			}, meta)
			assert.Nil(t, item)
			require.Error(t, err)
		})

		t.Run("Inbox", func(t *testing.T) {
			res, err := flow.Inbox(ctx, recipient.ID, 1, 20)
			require.NoError(t, err)
			require.Len(t, res.Items, 1)
			assert.Equal(t, int64(1), res.Unread)
			require.NotNil(t, res.Items[0].SenderName)
			assert.Equal(t, sender.FullName, *res.Items[0].SenderName)
		})

		t.Run("MarkRead", func(t *testing.T) {
			res, err := flow.Inbox(ctx, recipient.ID, 1, 20)
			require.NoError(t, err)
			require.Len(t, res.Items, 1)

			require.NoError(t, flow.MarkRead(ctx, res.Items[0].ID, recipient.ID))

			res, err = flow.Inbox(ctx, recipient.ID, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, int64(0), res.Unread)
			require.NotNil(t, res.Items[0].ReadAt)

			// Marking again is a no-op
			require.NoError(t, flow.MarkRead(ctx, res.Items[0].ID, recipient.ID))
		})

		t.Run("MarkReadWrongRecipient", func(t *testing.T) {
			res, err := flow.Inbox(ctx, recipient.ID, 1, 20)
			require.NoError(t, err)
			require.Len(t, res.Items, 1)

			err = flow.MarkRead(ctx, res.Items[0].ID, sender.ID)
			require.Error(t, err)
		})

		t.Run("MarkReadUnknownMessage", func(t *testing.T) {
			err := flow.MarkRead(ctx, 99999, recipient.ID)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
