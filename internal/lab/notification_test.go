package lab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopNotifications_DrainsOnlyTarget(t *testing.T) {
	f := newFixture(t)
	f.m.enqueue(f.student, 1, "one", t0)
	f.m.enqueue(f.teacher, 1, "for teacher", t0)
	f.m.enqueue(f.student, 2, "two", t0.Add(time.Second))

	got := f.m.PopNotifications(f.student)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, "two", got[1].Message)
	assert.Less(t, got[0].ID, got[1].ID)

	assert.Empty(t, f.m.PopNotifications(f.student))

	teacher := f.m.PopNotifications(f.teacher)
	require.Len(t, teacher, 1)
	assert.Equal(t, "for teacher", teacher[0].Message)
}

func TestPopNotifications_AfterPreemption(t *testing.T) {
	f := newFixture(t)
	dev := f.m.AddDevice(Power, "centrifuge", true)
	require.NoError(t, f.m.Reserve(f.student, dev, t0, t0.Add(time.Hour)))
	require.NoError(t, f.m.Reserve(f.teacher, dev, t0, t0.Add(time.Hour)))

	assert.NotEmpty(t, f.m.PopNotifications(f.student))
	assert.Empty(t, f.m.PopNotifications(f.student))
}
