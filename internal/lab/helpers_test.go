package lab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	m       *Manager
	now     time.Time
	student int64
	teacher int64
	admin   int64
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{now: t0}
	opts = append([]Option{WithClock(func() time.Time { return f.now })}, opts...)
	f.m = NewManager(opts...)

	var err error
	f.student, err = f.m.RegisterUser("student1", "pw", Student)
	require.NoError(t, err)
	f.teacher, err = f.m.RegisterUser("teacher1", "pw", Teacher)
	require.NoError(t, err)
	f.admin, err = f.m.RegisterUser("admin1", "pw", Admin)
	require.NoError(t, err)
	return f
}

func (f *fixture) device(t *testing.T, id int64) DeviceView {
	t.Helper()
	d, ok := f.m.Device(id, f.now)
	require.True(t, ok, "device %d should exist", id)
	return d
}

func (f *fixture) credit(t *testing.T, id int64) int {
	t.Helper()
	u, ok := f.m.User(id)
	require.True(t, ok, "user %d should exist", id)
	return u.CreditScore
}

type recordingObserver struct {
	ops      []string
	kinds    []string
	notes    []Notification
	sessions []Session
}

func (r *recordingObserver) OperationCompleted(op string, err error) {
	r.ops = append(r.ops, op)
	r.kinds = append(r.kinds, Kind(err))
}

func (r *recordingObserver) NotificationQueued(n Notification) { r.notes = append(r.notes, n) }
func (r *recordingObserver) SessionClosed(s Session) { r.sessions = append(r.sessions, s) }
