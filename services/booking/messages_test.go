package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeBroadcaster) Broadcast(bookingID string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, bookingID)
}

func chatSetup(t *testing.T) (*BookingService, *fakeBroadcaster, string) {
	t.Helper()
	repo := newFakeBookingRepo()
	broadcaster := &fakeBroadcaster{}
	svc := NewBookingService(repo, newFakeServiceRepo(massageService()), nil, broadcaster)

	b, err := svc.Create(context.Background(), "client-1", validInput())
	require.NoError(t, err)
	return svc, broadcaster, b.ID
}

func TestHasUnread(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("no messages means nothing unread", func(t *testing.T) {
		b := &models.Booking{ClientID: "client-1", TherapistID: "therapist-1"}
		assert.False(t, HasUnread(b, "therapist-1"))
	})

	t.Run("message from the other party with no read mark is unread", func(t *testing.T) {
		b := &models.Booking{
			ClientID: "client-1", TherapistID: "therapist-1",
			Messages: []models.Message{{Sender: "client-1", Text: "hello", Timestamp: base}},
		}
		assert.True(t, HasUnread(b, "therapist-1"))
	})

	t.Run("own messages are never unread", func(t *testing.T) {
		b := &models.Booking{
			ClientID: "client-1", TherapistID: "therapist-1",
			Messages: []models.Message{{Sender: "client-1", Text: "hello", Timestamp: base}},
		}
		assert.False(t, HasUnread(b, "client-1"))
	})

	t.Run("read mark after the message clears unread", func(t *testing.T) {
		b := &models.Booking{
			ClientID: "client-1", TherapistID: "therapist-1",
			Messages:   []models.Message{{Sender: "client-1", Text: "hello", Timestamp: base}},
			LastReadAt: map[string]time.Time{"therapist-1": base.Add(time.Minute)},
		}
		assert.False(t, HasUnread(b, "therapist-1"))
	})

	t.Run("a newer message flips it back", func(t *testing.T) {
		b := &models.Booking{
			ClientID: "client-1", TherapistID: "therapist-1",
			Messages: []models.Message{
				{Sender: "client-1", Text: "hello", Timestamp: base},
				{Sender: "client-1", Text: "still there?", Timestamp: base.Add(2 * time.Minute)},
			},
			LastReadAt: map[string]time.Time{"therapist-1": base.Add(time.Minute)},
		}
		assert.True(t, HasUnread(b, "therapist-1"))
	})

	t.Run("a mark exactly at the message timestamp counts as read", func(t *testing.T) {
		b := &models.Booking{
			ClientID: "client-1", TherapistID: "therapist-1",
			Messages:   []models.Message{{Sender: "client-1", Text: "hello", Timestamp: base}},
			LastReadAt: map[string]time.Time{"therapist-1": base},
		}
		assert.False(t, HasUnread(b, "therapist-1"))
	})
}

func TestAppendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("participants may chat and the room is notified", func(t *testing.T) {
		svc, broadcaster, id := chatSetup(t)

		msg, err := svc.AppendMessage(ctx, id, "client-1", "hello")
		require.NoError(t, err)
		assert.Equal(t, "client-1", msg.Sender)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, []string{id}, broadcaster.events)

		got, err := svc.Bookings.GetByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, got.Messages, 1)
	})

	t.Run("outsiders may not", func(t *testing.T) {
		svc, _, id := chatSetup(t)
		_, err := svc.AppendMessage(ctx, id, "stranger", "hi")
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("guest bookings have no chat", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := NewBookingService(repo, newFakeServiceRepo(massageService()), nil, nil)
		b, err := svc.Create(ctx, "", validInput())
		require.NoError(t, err)

		_, err = svc.AppendMessage(ctx, b.ID, "therapist-1", "hi")
		assert.ErrorIs(t, err, ErrGuestChat)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		svc, _, id := chatSetup(t)
		_, err := svc.AppendMessage(ctx, id, "client-1", "   ")
		assert.Error(t, err)
	})
}

func TestUnreadLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, id := chatSetup(t)

	_, err := svc.AppendMessage(ctx, id, "client-1", "hello")
	require.NoError(t, err)

	// The therapist has never read the chat.
	views, err := svc.ListForTherapist(ctx, "therapist-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].HasUnread)

	// The sender sees nothing unread.
	views, err = svc.ListForClient(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].HasUnread)

	// Reading the chat clears the flag.
	require.NoError(t, svc.MarkRead(ctx, id, "therapist-1"))
	views, err = svc.ListForTherapist(ctx, "therapist-1")
	require.NoError(t, err)
	assert.False(t, views[0].HasUnread)
}

func TestMessagesMarksRead(t *testing.T) {
	ctx := context.Background()
	svc, _, id := chatSetup(t)

	_, err := svc.AppendMessage(ctx, id, "client-1", "hello")
	require.NoError(t, err)

	messages, err := svc.Messages(ctx, id, "therapist-1")
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	views, err := svc.ListForTherapist(ctx, "therapist-1")
	require.NoError(t, err)
	assert.False(t, views[0].HasUnread)

	_, err = svc.Messages(ctx, id, "stranger")
	assert.ErrorIs(t, err, ErrNotParticipant)
}
