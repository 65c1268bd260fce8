package lab

import "time"

// Session describes a completed borrow, emitted when a device is returned.
type Session struct {
	DeviceID       int64
	DeviceName     string
	Variant        Variant
	UserID         int64
	ReservedStart  time.Time
	ReservedEnd    time.Time
	BorrowedAt     time.Time
	ReturnedAt     time.Time
	Late           bool
	Penalty        int
	HealthAfter    int
	AttributeAfter float64
}

// Duration is the borrowed time, never negative.
func (s Session) Duration() time.Duration {
	d := s.ReturnedAt.Sub(s.BorrowedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Observer receives committed results. Implementations must not block: they
// are called on the request path after the Manager lock is released.
type Observer interface {
	OperationCompleted(op string, err error)
	NotificationQueued(n Notification)
	SessionClosed(s Session)
}

// NopObserver ignores everything. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) OperationCompleted(string, error) {}
func (NopObserver) NotificationQueued(Notification) {}
func (NopObserver) SessionClosed(Session) {}

// Observers fans out to every member.
type Observers []Observer

func (o Observers) OperationCompleted(op string, err error) {
	for _, ob := range o {
		ob.OperationCompleted(op, err)
	}
}

func (o Observers) NotificationQueued(n Notification) {
	for _, ob := range o {
		ob.NotificationQueued(n)
	}
}

func (o Observers) SessionClosed(s Session) {
	for _, ob := range o {
		ob.SessionClosed(s)
	}
}
