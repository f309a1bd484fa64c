package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrizkyrn/open-forum-sub001/internal/live"
	"github.com/mrizkyrn/open-forum-sub001/internal/model"
	"github.com/mrizkyrn/open-forum-sub001/internal/notification"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	rooms  []string
	events []string
}

func (b *recordingBroadcaster) Broadcast(room, eventName string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, room)
	b.events = append(b.events, eventName)
}

type recordingScheduler struct {
	ids []int64
}

func (s *recordingScheduler) Dispatch(notificationID int64) {
	s.ids = append(s.ids, notificationID)
}

// unreachableSender simulates a completely unreachable push provider.
type unreachableSender struct{}

func (unreachableSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return nil, errors.New("dial tcp: no route to host")
}

func newTestStore(t *testing.T) store.Store {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}, &model.Notification{}))
	return store.NewGormStore(db)
}

func TestCreateNotification_PersistsBroadcastsAndSchedules(t *testing.T) {
	s := newTestStore(t)
	hub := &recordingBroadcaster{}
	scheduler := &recordingScheduler{}
	svc := NewNotificationService(s, hub, scheduler)

	actorID := int64(8)
	n, err := svc.CreateNotification(context.Background(), CreateInput{
		Type:        model.TypeUserMentioned,
		RecipientID: 3,
		ActorID:     &actorID,
		EntityType:  "comment",
		EntityID:    15,
		Data:        model.NotificationData{Content: "ping @someone"},
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)

	// Durable record exists.
	got, err := s.GetNotification(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TypeUserMentioned, got.Type)

	// Live broadcast targeted the recipient's personal room.
	assert.Equal(t, []string{live.UserRoom(3)}, hub.rooms)
	assert.Equal(t, []string{"notification"}, hub.events)

	// Push delivery was scheduled for the persisted row.
	assert.Equal(t, []int64{n.ID}, scheduler.ids)
}

func TestCreateNotification_SucceedsWithUnreachableProvider(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// The recipient has registered devices, but the provider is down for
	// every one of them.
	_, err := s.Upsert(ctx, 3, "https://push.example.com/sub/one", "k", "a", "")
	require.NoError(t, err)
	_, err = s.Upsert(ctx, 3, "https://push.example.com/sub/two", "k", "a", "")
	require.NoError(t, err)

	dispatcher := notification.NewDispatcherWithSender(1, 4, s, &webpush.Options{}, time.Second, unreachableSender{})
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	dispatcher.Start(runCtx)

	svc := NewNotificationService(s, nil, dispatcher)

	n, err := svc.CreateNotification(ctx, CreateInput{
		Type:        model.TypeNewComment,
		RecipientID: 3,
		EntityType:  "discussion",
		EntityID:    20,
	})
	require.NoError(t, err, "creation must not be affected by push delivery failures")

	// Give the worker a moment; no subscription state may change.
	time.Sleep(100 * time.Millisecond)
	subs, err := s.ListActive(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.NotZero(t, n.ID)
}

func TestBroadcastDiscussionEvent(t *testing.T) {
	hub := &recordingBroadcaster{}
	svc := NewNotificationService(newTestStore(t), hub, nil)

	svc.BroadcastDiscussionEvent(55, "new-comment", map[string]any{"commentId": 9})

	assert.Equal(t, []string{live.DiscussionRoom(55)}, hub.rooms)
	assert.Equal(t, []string{"new-comment"}, hub.events)
}

func TestCreateNotification_NilChannels(t *testing.T) {
	svc := NewNotificationService(newTestStore(t), nil, nil)

	_, err := svc.CreateNotification(context.Background(), CreateInput{
		Type:        model.TypeSpaceFollow,
		RecipientID: 1,
		EntityType:  "space",
		EntityID:    2,
	})
	assert.NoError(t, err)
}
