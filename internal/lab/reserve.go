package lab

import (
	"fmt"
	"time"
)

const preemptedMessage = "your reservation on %q was removed in favor of a higher-priority request"

// Reserve requests [start, end) on a device. Students cannot reserve devices
// that forbid student reservations.
func (m *Manager) Reserve(userID, deviceID int64, start, end time.Time) error {
	return m.reserveAndNotify(userID, deviceID, start, end, false)
}

// ReserveBypass is Reserve without the student restriction. It is the path
// taken by approved applications.
func (m *Manager) ReserveBypass(userID, deviceID int64, start, end time.Time) error {
	return m.reserveAndNotify(userID, deviceID, start, end, true)
}

func (m *Manager) reserveAndNotify(userID, deviceID int64, start, end time.Time, bypass bool) error {
	m.mu.Lock()
	notes, err := m.reserve(userID, deviceID, start, end, bypass)
	m.mu.Unlock()

	m.observer.OperationCompleted(OpReserve, err)
	for _, n := range notes {
		m.observer.NotificationQueued(n)
	}
	return err
}

// reserve runs with m.mu held. Every overlap is resolved before anything is
// removed, so a single RejectNew leaves the device untouched.
func (m *Manager) reserve(userID, deviceID int64, start, end time.Time, bypass bool) ([]Notification, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("reserve [%d, %d): %w", start.Unix(), end.Unix(), ErrInvalidInterval)
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if !u.CanReserve() {
		return nil, fmt.Errorf("user %d has credit %d: %w", userID, u.CreditScore, ErrPermissionDenied)
	}
	d, ok := m.devices[deviceID]
	if !ok {
		return nil, fmt.Errorf("device %d: %w", deviceID, ErrNotFound)
	}
	if !bypass && u.Rank == Student && !d.AllowStudent {
		return nil, fmt.Errorf("device %d is closed to students: %w", deviceID, ErrPermissionDenied)
	}
	if d.Health <= 0 {
		return nil, fmt.Errorf("device %d is broken: %w", deviceID, ErrDeviceUnavailable)
	}

	now := m.now()
	if earliest := now.Add(-m.clockSkew); start.Before(earliest) {
		start = earliest
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("reserve window ended before %d: %w", start.Unix(), ErrInvalidInterval)
	}

	evict := make(map[int]bool)
	for i, r := range d.Reservations {
		if !overlaps(start, end, r.Start, r.End) {
			continue
		}
		holder, ok := m.users[r.UserID]
		if !ok {
			return nil, fmt.Errorf("holder %d of overlapping reservation: %w", r.UserID, ErrNotFound)
		}
		switch m.policy(u.Rank, holder.Rank, r.Borrowed) {
		case RejectNew:
			return nil, fmt.Errorf("device %d overlaps reservation of user %d: %w", deviceID, r.UserID, ErrConflict)
		case RemoveExisting:
			evict[i] = true
		}
	}

	var notes []Notification
	if len(evict) > 0 {
		kept := make([]Reservation, 0, len(d.Reservations)-len(evict))
		for i, r := range d.Reservations {
			if !evict[i] {
				kept = append(kept, r)
				continue
			}
			notes = append(notes, m.enqueue(r.UserID, d.ID, fmt.Sprintf(preemptedMessage, d.Name), now))
		}
		d.Reservations = kept
	}

	d.Reservations = append(d.Reservations, Reservation{
		UserID: userID,
		Start:  start,
		End:    end,
	})
	return notes, nil
}
