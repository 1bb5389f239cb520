//go:build integration

package repository

import (
	"context"
	"testing"

	"loftalgerie/internal/testutil"
	"loftalgerie/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification(userID, eventID string) *model.Notification {
	return &model.Notification{
		UserID:  userID,
		EventID: eventID,
		Title:   "Booking received",
		Message: "Your booking request has been received",
		Type:    model.NotificationSuccess,
	}
}

func TestCreateMany_SkipsAlreadyDeliveredEvents(t *testing.T) {
	h := testutil.NewMongoHelper(t)
	repo := NewMongoNotificationRepository(h.Config)
	ctx := context.Background()

	stored, err := repo.CreateMany(ctx, []*model.Notification{
		notification("client-1", "evt-1"),
		notification("partner-1", "evt-1"),
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotEmpty(t, stored[0].ID)

	// A redelivery after a partial insert only stores the missing recipient.
	stored, err = repo.CreateMany(ctx, []*model.Notification{
		notification("client-1", "evt-1"),
		notification("partner-1", "evt-1"),
		notification("manager-1", "evt-1"),
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "manager-1", stored[0].UserID)
	assert.Equal(t, int64(3), h.CountDocuments(t, NotificationsCollection))

	// Broadcasts carry no event and are never deduplicated.
	stored, err = repo.CreateMany(ctx, []*model.Notification{
		notification("client-1", ""),
		notification("client-1", ""),
	})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
