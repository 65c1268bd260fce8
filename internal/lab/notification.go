package lab

import "time"

// Notification is a message waiting in a user's outbox.
type Notification struct {
	ID        int64
	UserID    int64
	DeviceID  int64
	Message   string
	CreatedAt time.Time
}

// enqueue runs with m.mu held.
func (m *Manager) enqueue(userID, deviceID int64, message string, at time.Time) Notification {
	m.nextNoteID++
	n := Notification{
		ID:        m.nextNoteID,
		UserID:    userID,
		DeviceID:  deviceID,
		Message:   message,
		CreatedAt: at,
	}
	m.outbox = append(m.outbox, n)
	return n
}

// PopNotifications returns and removes every notification addressed to the
// user, oldest first.
func (m *Manager) PopNotifications(userID int64) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Notification
	kept := m.outbox[:0]
	for _, n := range m.outbox {
		if n.UserID == userID {
			out = append(out, n)
			continue
		}
		kept = append(kept, n)
	}
	m.outbox = kept
	return out
}
