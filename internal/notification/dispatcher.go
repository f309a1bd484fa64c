package notification

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/mrizkyrn/open-forum-sub001/internal/model"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

// Sender defines the interface for sending a web push message.
type Sender interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a push message using the webpush library.
func (s *WebPushSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}

// Dispatcher fans a persisted notification out to the recipient's active
// subscriptions. Delivery is best effort: every failure is contained here
// and never reaches the caller that created the notification.
type Dispatcher struct {
	size        int
	jobs        chan int64
	store       store.Store
	webpush     *webpush.Options
	sender      Sender
	sendTimeout time.Duration
}

// NewDispatcher creates a dispatcher backed by a pool of worker goroutines.
func NewDispatcher(size, queueSize int, s store.Store, webpushOptions *webpush.Options, sendTimeout time.Duration) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		size:        size,
		jobs:        make(chan int64, queueSize),
		store:       s,
		webpush:     webpushOptions,
		sender:      &WebPushSender{},
		sendTimeout: sendTimeout,
	}
}

// NewDispatcherWithSender is NewDispatcher with the transport swapped out,
// for tests and alternative providers.
func NewDispatcherWithSender(size, queueSize int, s store.Store, webpushOptions *webpush.Options, sendTimeout time.Duration, sender Sender) *Dispatcher {
	d := NewDispatcher(size, queueSize, s, webpushOptions, sendTimeout)
	d.sender = sender
	return d
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.size; i++ {
		go d.worker(ctx, i)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	log.Printf("Dispatch worker %d started", id)
	for {
		select {
		case notificationID := <-d.jobs:
			d.deliver(ctx, notificationID)
		case <-ctx.Done():
			log.Printf("Dispatch worker %d shutting down", id)
			return
		}
	}
}

// Dispatch schedules push delivery for a persisted notification. It never
// blocks: when the queue is full the job is dropped, since the durable
// record already exists and the in-app list is the authoritative channel.
func (d *Dispatcher) Dispatch(notificationID int64) {
	select {
	case d.jobs <- notificationID:
	default:
		log.Printf("Dispatch queue full, dropping push delivery for notification %d", notificationID)
	}
}

// deliver loads the notification and fans out to every active subscription
// of its recipient. Each attempt runs concurrently and independently; the
// call returns once all attempts have settled.
func (d *Dispatcher) deliver(ctx context.Context, notificationID int64) {
	n, err := d.store.GetNotification(ctx, notificationID)
	if err != nil {
		log.Printf("Error loading notification %d: %v", notificationID, err)
		return
	}
	if n.RecipientID == 0 {
		// Non-targeted notifications are not pushable.
		return
	}

	subs, err := d.store.ListActive(ctx, n.RecipientID)
	if err != nil {
		log.Printf("Error fetching subscriptions for user %d: %v", n.RecipientID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload := BuildPayload(n)

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.PushSubscription) {
			defer wg.Done()
			d.sendOne(ctx, sub, payload)
		}(sub)
	}
	wg.Wait()
}

// sendOne pushes the payload to a single device and classifies the outcome.
// An endpoint reported gone by the provider is deactivated; every other
// failure is logged and dropped.
func (d *Dispatcher) sendOne(ctx context.Context, sub model.PushSubscription, payload []byte) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := d.sender.Send(sendCtx, payload, wpSub, d.webpush)
	if err != nil {
		log.Printf("Error sending push to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusGone, http.StatusNotFound:
		log.Printf("Subscription for endpoint %s is expired. Deactivating.", sub.Endpoint)
		if err := d.store.Deactivate(ctx, sub.UserID, sub.Endpoint); err != nil {
			log.Printf("Failed to deactivate expired subscription %s: %v", sub.Endpoint, err)
		}
	default:
		if resp.StatusCode >= 400 {
			log.Printf("Push to %s failed with status %d", sub.Endpoint, resp.StatusCode)
		}
	}
}
