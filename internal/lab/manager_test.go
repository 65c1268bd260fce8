package lab

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser_Defaults(t *testing.T) {
	m := NewManager()
	testCases := []struct {
		rank     Rank
		credit   int
		priority int
	}{
		{Student, 100, 1},
		{Teacher, 200, 10},
		{Admin, 500, 99},
	}

	for _, tc := range testCases {
		t.Run(tc.rank.String(), func(t *testing.T) {
			id, err := m.RegisterUser("user-"+tc.rank.String(), "hash", tc.rank)
			require.NoError(t, err)
			u, ok := m.User(id)
			require.True(t, ok)
			assert.Equal(t, tc.credit, u.CreditScore)
			assert.Equal(t, tc.priority, u.Priority)
			assert.Equal(t, tc.rank, u.Rank)
		})
	}
}

func TestRegisterUser_Rejects(t *testing.T) {
	m := NewManager()
	_, err := m.RegisterUser("alice", "x", Student)
	require.NoError(t, err)

	_, err = m.RegisterUser("alice", "y", Teacher)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = m.RegisterUser("bob", "y", Rank(9))
	assert.Error(t, err)
	assert.Len(t, m.Users(), 1)
}

func TestAuthenticate(t *testing.T) {
	verify := func(hash, plain string) bool { return hash == "hashed:"+plain }
	m := NewManager(WithPasswordVerifier(verify))
	id, err := m.RegisterUser("alice", "hashed:secret", Teacher)
	require.NoError(t, err)

	got, ok := m.Authenticate("alice", "secret")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = m.Authenticate("alice", "wrong")
	assert.False(t, ok)
	_, ok = m.Authenticate("nobody", "secret")
	assert.False(t, ok)
}

func TestRestoreCredit(t *testing.T) {
	f := newFixture(t)
	f.m.users[f.teacher].CreditScore = -40

	require.NoError(t, f.m.RestoreCredit(f.teacher))
	assert.Equal(t, 200, f.credit(t, f.teacher))
	assert.ErrorIs(t, f.m.RestoreCredit(99), ErrNotFound)
}

func TestDevices_SnapshotsAreIsolated(t *testing.T) {
	f := newFixture(t)
	a := f.m.AddDevice(Consumable, "printer", true)
	b := f.m.AddDevice(Power, "centrifuge", false)
	require.NoError(t, f.m.Reserve(f.teacher, b, t0, t0.Add(time.Hour)))

	views := f.m.Devices(f.now)
	require.Len(t, views, 2)
	assert.Equal(t, a, views[0].ID)
	assert.Equal(t, Idle, views[0].Status)
	assert.Equal(t, 100.0, views[0].Attribute)
	assert.Equal(t, b, views[1].ID)
	assert.Equal(t, Reserved, views[1].Status)
	assert.Equal(t, 25.0, views[1].Attribute)
	assert.False(t, views[1].AllowStudent)

	views[1].Reservations[0].Borrowed = true
	assert.False(t, f.device(t, b).Reservations[0].Borrowed)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "conflict", Kind(fmt.Errorf("wrapped: %w", ErrConflict)))
	assert.Equal(t, "busy", Kind(ErrBusy))
	assert.Equal(t, "internal", Kind(errors.New("boom")))
}

func TestScenario_PreemptionThenRebook(t *testing.T) {
	f := newFixture(t)
	d := f.m.AddDevice(Power, "centrifuge X", true)

	require.NoError(t, f.m.Reserve(f.student, d, t0, t0.Add(time.Hour)))
	require.NoError(t, f.m.Reserve(f.teacher, d, t0.Add(15*time.Minute), t0.Add(75*time.Minute)))

	rs := f.device(t, d).Reservations
	require.Len(t, rs, 1)
	assert.Equal(t, f.teacher, rs[0].UserID)
	assert.Len(t, f.m.PopNotifications(f.student), 1)

	require.NoError(t, f.m.Reserve(f.student, d, t0.Add(2*time.Hour), t0.Add(3*time.Hour)))

	// Borrowed reservations block maintenance until returned.
	f.now = t0.Add(20 * time.Minute)
	require.NoError(t, f.m.Borrow(f.teacher, d, f.now))
	assert.ErrorIs(t, f.m.MaintainDevice(d), ErrBusy)
	_, err := f.m.Return(f.teacher, d, t0.Add(70*time.Minute))
	require.NoError(t, err)
	assert.NoError(t, f.m.MaintainDevice(d))
}

func TestNow_UsesInjectedClock(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, t0, f.m.Now())
	f.now = t0.Add(time.Minute)
	assert.Equal(t, t0.Add(time.Minute), f.m.Now())
}
