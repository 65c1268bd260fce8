package notification

import (
	"context"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionStore is the part of the store the workers need.
type SubscriptionStore interface {
	SubscriptionsForUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// WorkerPool manages a pool of workers that mirror outbox notifications to
// the recipient's browser push subscriptions.
type WorkerPool struct {
	lab.NopObserver

	size    int
	jobs    chan lab.Notification
	store   SubscriptionStore
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan lab.Notification, size*16),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Push worker %d started", id)
	for {
		select {
		case n := <-wp.jobs:
			wp.sendNotificationsForUser(ctx, n)
		case <-ctx.Done():
			log.Printf("Push worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification for delivery. It never blocks; when the
// queue is full the push copy is dropped and the outbox still holds it.
func (wp *WorkerPool) Dispatch(n lab.Notification) bool {
	select {
	case wp.jobs <- n:
		return true
	default:
		log.Printf("Push queue full; dropping notification %d for user %d", n.ID, n.UserID)
		return false
	}
}

// NotificationQueued implements lab.Observer.
func (wp *WorkerPool) NotificationQueued(n lab.Notification) {
	wp.Dispatch(n)
}

// sendNotificationsForUser sends n to every subscription the user holds.
func (wp *WorkerPool) sendNotificationsForUser(ctx context.Context, n lab.Notification) {
	subscriptions, err := wp.store.SubscriptionsForUser(ctx, n.UserID)
	if err != nil {
		log.Printf("Error fetching subscriptions for user %d: %v", n.UserID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d push notifications for user %d", len(subscriptions), n.UserID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(n.Message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
