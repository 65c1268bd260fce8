package lab

import (
	"fmt"
	"time"
)

// Borrow starts the session for the user's reservation covering now. A
// reservation the user already holds borrowed is re-borrowed, which restarts
// its session clock.
func (m *Manager) Borrow(userID, deviceID int64, now time.Time) error {
	err := m.borrow(userID, deviceID, now)
	m.observer.OperationCompleted(OpBorrow, err)
	return err
}

func (m *Manager) borrow(userID, deviceID int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[deviceID]
	if !ok {
		return fmt.Errorf("device %d: %w", deviceID, ErrNotFound)
	}
	if d.Health <= 0 {
		return fmt.Errorf("device %d is broken: %w", deviceID, ErrDeviceUnavailable)
	}
	i := d.activeIndex(userID, now)
	if i < 0 {
		return fmt.Errorf("user %d holds no active reservation on device %d: %w", userID, deviceID, ErrInvalidState)
	}
	d.Reservations[i].Borrowed = true
	d.Reservations[i].BorrowedAt = now
	return nil
}

// Return ends the user's borrow session, applies wear for the borrowed time,
// charges the late-return penalty when now is past the window, and frees the
// slot.
func (m *Manager) Return(userID, deviceID int64, now time.Time) (Session, error) {
	s, err := m.returnDevice(userID, deviceID, now)
	m.observer.OperationCompleted(OpReturn, err)
	if err == nil {
		m.observer.SessionClosed(s)
	}
	return s, err
}

func (m *Manager) returnDevice(userID, deviceID int64, now time.Time) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[deviceID]
	if !ok {
		return Session{}, fmt.Errorf("device %d: %w", deviceID, ErrNotFound)
	}
	i := d.activeIndex(userID, now)
	if i < 0 {
		return Session{}, fmt.Errorf("user %d holds no reservation on device %d: %w", userID, deviceID, ErrInvalidState)
	}
	r := d.Reservations[i]
	if !r.Borrowed || r.BorrowedAt.IsZero() {
		return Session{}, fmt.Errorf("reservation of user %d on device %d is not borrowed: %w", userID, deviceID, ErrInvalidState)
	}
	u, ok := m.users[userID]
	if !ok {
		return Session{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	d.applyWear(now.Sub(r.BorrowedAt))
	s := Session{
		DeviceID:      d.ID,
		DeviceName:    d.Name,
		Variant:       d.Variant,
		UserID:        userID,
		ReservedStart: r.Start,
		ReservedEnd:   r.End,
		BorrowedAt:    r.BorrowedAt,
		ReturnedAt:    now,
		Late:          r.Overdue(now),
	}
	if s.Late {
		u.deductCredit(m.lateReturnPenalty)
		s.Penalty = m.lateReturnPenalty
	}
	s.HealthAfter = d.Health
	s.AttributeAfter = d.Attribute
	d.removeAt(i)
	return s, nil
}

// Extend moves the end of the user's reservation on the device to newEnd. It
// only ever lengthens, never across another reservation. Extending a window
// that has already ended costs the overdue-extend penalty.
//
// If the user holds several reservations on the device, the first one found
// is extended.
func (m *Manager) Extend(userID, deviceID int64, newEnd time.Time) error {
	err := m.extend(userID, deviceID, newEnd)
	m.observer.OperationCompleted(OpExtend, err)
	return err
}

func (m *Manager) extend(userID, deviceID int64, newEnd time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[deviceID]
	if !ok {
		return fmt.Errorf("device %d: %w", deviceID, ErrNotFound)
	}
	i := d.userIndex(userID)
	if i < 0 {
		return fmt.Errorf("user %d holds no reservation on device %d: %w", userID, deviceID, ErrNotFound)
	}
	r := &d.Reservations[i]
	if !newEnd.After(r.End) {
		return fmt.Errorf("extend to %d does not pass current end %d: %w", newEnd.Unix(), r.End.Unix(), ErrInvalidInterval)
	}
	for j, other := range d.Reservations {
		if j == i {
			continue
		}
		if overlaps(r.Start, newEnd, other.Start, other.End) {
			return fmt.Errorf("extension overlaps reservation of user %d: %w", other.UserID, ErrConflict)
		}
	}

	overdue := r.Overdue(m.now())
	var u *User
	if overdue {
		if u, ok = m.users[userID]; !ok {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
	}
	r.End = newEnd
	if overdue {
		u.deductCredit(m.overdueExtendPenalty)
	}
	return nil
}
