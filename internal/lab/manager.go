package lab

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Operation names reported to Observer.OperationCompleted.
const (
	OpReserve  = "reserve"
	OpBorrow   = "borrow"
	OpReturn   = "return"
	OpExtend   = "extend"
	OpMaintain = "maintain"
	OpDelete   = "delete"
	OpApprove  = "approve"
)

const (
	DefaultClockSkew            = 120 * time.Second
	DefaultLateReturnPenalty    = 10
	DefaultOverdueExtendPenalty = 5
)

// PasswordVerifier checks a plain password against stored credential material.
type PasswordVerifier func(hash, plain string) bool

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used where an operation does not receive an instant.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPolicy sets the conflict policy.
func WithPolicy(p ConflictPolicy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithObserver registers an observer for committed results.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// WithPasswordVerifier sets how Authenticate compares credentials.
func WithPasswordVerifier(v PasswordVerifier) Option {
	return func(m *Manager) { m.verify = v }
}

// WithClockSkew sets how far in the past a reservation start may lie before
// it is advanced.
func WithClockSkew(d time.Duration) Option {
	return func(m *Manager) { m.clockSkew = d }
}

// WithPenalties sets the credit deducted for a late return and for extending
// an overdue reservation.
func WithPenalties(lateReturn, overdueExtend int) Option {
	return func(m *Manager) {
		m.lateReturnPenalty = lateReturn
		m.overdueExtendPenalty = overdueExtend
	}
}

// Manager owns users, devices, applications and the notification outbox.
// Every public method runs as one critical section.
type Manager struct {
	mu sync.Mutex

	users     map[int64]*User
	usernames map[string]int64
	devices   map[int64]*Device
	apps      []Application
	outbox    []Notification

	nextUserID   int64
	nextDeviceID int64
	nextAppID    int64
	nextNoteID   int64

	now                  func() time.Time
	policy               ConflictPolicy
	observer             Observer
	verify               PasswordVerifier
	clockSkew            time.Duration
	lateReturnPenalty    int
	overdueExtendPenalty int
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		users:                make(map[int64]*User),
		usernames:            make(map[string]int64),
		devices:              make(map[int64]*Device),
		now:                  time.Now,
		policy:               TeacherPriority,
		observer:             NopObserver{},
		verify:               func(hash, plain string) bool { return hash == plain },
		clockSkew:            DefaultClockSkew,
		lateReturnPenalty:    DefaultLateReturnPenalty,
		overdueExtendPenalty: DefaultOverdueExtendPenalty,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterUser creates an account with the rank's default credit and priority.
func (m *Manager) RegisterUser(username, passwordHash string, rank Rank) (int64, error) {
	if !rank.Valid() {
		return 0, fmt.Errorf("register %q: unknown rank %d", username, int(rank))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usernames[username]; exists {
		return 0, fmt.Errorf("username %q: %w", username, ErrAlreadyExists)
	}
	m.nextUserID++
	u := newUser(m.nextUserID, username, passwordHash, rank)
	m.users[u.ID] = u
	m.usernames[username] = u.ID
	return u.ID, nil
}

// Authenticate returns the id of the user whose credentials match.
func (m *Manager) Authenticate(username, password string) (int64, bool) {
	m.mu.Lock()
	id, ok := m.usernames[username]
	var hash string
	if ok {
		hash = m.users[id].PasswordHash
	}
	m.mu.Unlock()

	if !ok || !m.verify(hash, password) {
		return 0, false
	}
	return id, true
}

// Now reads the Manager's clock.
func (m *Manager) Now() time.Time {
	return m.now()
}

// User returns a snapshot of the user.
func (m *Manager) User(id int64) (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Users returns snapshots of every user in id order.
func (m *Manager) Users() []User {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RestoreCredit resets the user's credit to the rank default.
func (m *Manager) RestoreCredit(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	u.restoreCredit()
	return nil
}

// AddDevice provisions a device at full health and baseline attribute.
func (m *Manager) AddDevice(variant Variant, name string, allowStudent bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextDeviceID++
	d := newDevice(m.nextDeviceID, variant, name, allowStudent)
	m.devices[d.ID] = d
	return d.ID
}

// DeleteDevice removes a device unless one of its reservations is borrowed.
func (m *Manager) DeleteDevice(id int64) error {
	err := m.deleteDevice(id)
	m.observer.OperationCompleted(OpDelete, err)
	return err
}

func (m *Manager) deleteDevice(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("device %d: %w", id, ErrNotFound)
	}
	if d.busy(m.now()) {
		return fmt.Errorf("delete device %d: %w", id, ErrBusy)
	}
	delete(m.devices, id)
	return nil
}

// MaintainDevice restores health and the variant attribute unless one of the
// device's reservations is borrowed.
func (m *Manager) MaintainDevice(id int64) error {
	err := m.maintainDevice(id)
	m.observer.OperationCompleted(OpMaintain, err)
	return err
}

func (m *Manager) maintainDevice(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("device %d: %w", id, ErrNotFound)
	}
	if d.busy(m.now()) {
		return fmt.Errorf("maintain device %d: %w", id, ErrBusy)
	}
	d.maintain()
	return nil
}

// Device returns a snapshot of one device with its status derived at now.
func (m *Manager) Device(id int64, now time.Time) (DeviceView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id]
	if !ok {
		return DeviceView{}, false
	}
	return d.view(now), true
}

// Devices returns snapshots of every device in id order.
func (m *Manager) Devices(now time.Time) []DeviceView {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]DeviceView, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, d.view(now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
