package lab

import (
	"fmt"
	"time"
)

// Application is a reservation request deferred for administrative approval.
type Application struct {
	ID          int64
	UserID      int64
	DeviceID    int64
	Start       time.Time
	End         time.Time
	Reason      string
	SubmittedAt time.Time
}

// Apply queues an application and returns its id. Nothing is validated until
// approval.
func (m *Manager) Apply(userID, deviceID int64, start, end time.Time, reason string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAppID++
	m.apps = append(m.apps, Application{
		ID:          m.nextAppID,
		UserID:      userID,
		DeviceID:    deviceID,
		Start:       start,
		End:         end,
		Reason:      reason,
		SubmittedAt: m.now(),
	})
	return m.nextAppID
}

// Applications returns the queue in submission order.
func (m *Manager) Applications() []Application {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Application, len(m.apps))
	copy(out, m.apps)
	return out
}

// ApproveApplication replays the request with the student restriction
// bypassed. The application leaves the queue only when the reservation is
// granted; otherwise the reservation error is returned and it stays queued.
func (m *Manager) ApproveApplication(id int64) error {
	m.mu.Lock()
	notes, err := m.approve(id)
	m.mu.Unlock()

	m.observer.OperationCompleted(OpApprove, err)
	for _, n := range notes {
		m.observer.NotificationQueued(n)
	}
	return err
}

func (m *Manager) approve(id int64) ([]Notification, error) {
	i := m.appIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	a := m.apps[i]
	notes, err := m.reserve(a.UserID, a.DeviceID, a.Start, a.End, true)
	if err != nil {
		return nil, fmt.Errorf("approve application %d: %w", id, err)
	}
	m.apps = append(m.apps[:i], m.apps[i+1:]...)
	return notes, nil
}

// RejectApplication drops an application without reserving anything.
func (m *Manager) RejectApplication(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.appIndex(id)
	if i < 0 {
		return fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	m.apps = append(m.apps[:i], m.apps[i+1:]...)
	return nil
}

func (m *Manager) appIndex(id int64) int {
	for i, a := range m.apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}
