package pit

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookmosh/internal/realtime"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CleanBody(t *testing.T) {
	svc := NewService(nil, nil)

	tests := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{"plain", "  hello pit  ", "hello pit", nil},
		{"markup stripped", "<b>bold</b> move", "bold move", nil},
		{"script removed", "<script>alert(1)</script>hi", "hi", nil},
		{"entities decoded", "Tom & Jerry's", "Tom & Jerry's", nil},
		{"empty", "   ", "", ErrInvalidMessage},
		{"only markup", "<i></i>", "", ErrInvalidMessage},
		{"max length", strings.Repeat("é", MaxBodyLength), strings.Repeat("é", MaxBodyLength), nil},
		{"too long", strings.Repeat("a", MaxBodyLength+1), "", ErrInvalidMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CleanBody(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then publishes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)
		hub := realtime.NewHub()
		svc := NewService(repo, hub)

		var live []Message
		repo.EXPECT().IsMember(ctx, "pit-1", "user-2").Return(true, nil)
		sub, err := svc.Subscribe(ctx, "pit-1", "user-2", func(m Message) { live = append(live, m) })
		require.NoError(t, err)
		defer sub.Unsubscribe()

		repo.EXPECT().IsMember(ctx, "pit-1", "user-1").Return(true, nil)
		repo.EXPECT().InsertMessage(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, m *Message) error {
			assert.Empty(t, live, "published before persisted")
			m.ID = "msg-1"
			m.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			return nil
		})

		m, err := svc.Post(ctx, "pit-1", "user-1", " <p>spice must flow</p> ")
		require.NoError(t, err)
		assert.Equal(t, "spice must flow", m.Body)
		require.Len(t, live, 1)
		assert.Equal(t, "msg-1", live[0].ID)
		assert.Equal(t, "user-1", live[0].UserID)
		assert.True(t, m.CreatedAt.Equal(live[0].CreatedAt))
	})

	t.Run("non member rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)
		svc := NewService(repo, NewMockBroker(ctrl))

		repo.EXPECT().IsMember(ctx, "pit-1", "user-9").Return(false, nil)
		_, err := svc.Post(ctx, "pit-1", "user-9", "hi")
		assert.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("invalid body skips storage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewService(NewMockRepository(ctrl), NewMockBroker(ctrl))

		_, err := svc.Post(ctx, "pit-1", "user-1", "<br/>")
		assert.ErrorIs(t, err, ErrInvalidMessage)
	})

	t.Run("insert failure does not publish", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepository(ctrl)
		svc := NewService(repo, NewMockBroker(ctrl))

		repo.EXPECT().IsMember(ctx, "pit-1", "user-1").Return(true, nil)
		repo.EXPECT().InsertMessage(ctx, gomock.Any()).Return(context.DeadlineExceeded)
		_, err := svc.Post(ctx, "pit-1", "user-1", "hi")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_Messages(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, realtime.NewHub())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.EXPECT().IsMember(ctx, "pit-1", "user-1").Return(true, nil).Times(2)
	repo.EXPECT().ListMessages(ctx, "pit-1", now.Add(time.Second), DefaultPageSize).Return([]Message{{ID: "m2"}}, nil)
	msgs, err := svc.Messages(ctx, "pit-1", "user-1", time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	before := now.Add(-time.Hour)
	repo.EXPECT().ListMessages(ctx, "pit-1", before, MaxPageSize).Return(nil, nil)
	_, err = svc.Messages(ctx, "pit-1", "user-1", before, 10000)
	require.NoError(t, err)
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, realtime.NewHub())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.EXPECT().IsMember(ctx, "pit-1", "user-1").Return(true, nil)
	repo.EXPECT().MarkRead(ctx, "pit-1", "user-1", now).Return(nil)
	assert.NoError(t, svc.MarkRead(ctx, "pit-1", "user-1"))
}

func TestService_SubscribeUnsubscribe(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	hub := realtime.NewHub()
	svc := NewService(repo, hub)

	repo.EXPECT().IsMember(ctx, "pit-1", "user-1").Return(true, nil)
	got := 0
	sub, err := svc.Subscribe(ctx, "pit-1", "user-1", func(Message) { got++ })
	require.NoError(t, err)

	ev, err := realtime.NewEvent(Topic("pit-1"), EventMessageCreated, Message{ID: "m1"})
	require.NoError(t, err)
	hub.Publish(Topic("pit-1"), ev)
	hub.Publish(Topic("pit-1"), realtime.Event{Type: "member.joined"})

	sub.Unsubscribe()
	hub.Publish(Topic("pit-1"), ev)

	assert.Equal(t, 1, got)
	assert.Zero(t, hub.Subscribers(Topic("pit-1")))

	repo.EXPECT().IsMember(ctx, "pit-1", "stranger").Return(false, nil)
	_, err = svc.Subscribe(ctx, "pit-1", "stranger", func(Message) {})
	assert.ErrorIs(t, err, ErrNotMember)
}
