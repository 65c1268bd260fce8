package lab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TeacherPriority(t *testing.T) {
	testCases := []struct {
		requester Rank
		holder    Rank
		borrowed  bool
		expected  Decision
	}{
		{Teacher, Student, false, RemoveExisting},
		{Teacher, Student, true, RejectNew},
		{Teacher, Teacher, false, RejectNew},
		{Student, Student, false, RejectNew},
		{Student, Teacher, false, RejectNew},
		{Admin, Student, false, RejectNew},
		{Admin, Teacher, true, RejectNew},
	}

	for _, tc := range testCases {
		t.Run(tc.requester.String()+"_vs_"+tc.holder.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, TeacherPriority(tc.requester, tc.holder, tc.borrowed))
		})
	}
}

func Test_FirstCome_AlwaysRejects(t *testing.T) {
	for _, requester := range []Rank{Student, Teacher, Admin} {
		for _, holder := range []Rank{Student, Teacher, Admin} {
			assert.Equal(t, RejectNew, FirstCome(requester, holder, false))
		}
	}
}

func Test_PolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, RemoveExisting, p(Teacher, Student, false))

	p, err = PolicyByName(PolicyFirstCome)
	require.NoError(t, err)
	assert.Equal(t, RejectNew, p(Teacher, Student, false))

	_, err = PolicyByName("lottery")
	assert.Error(t, err)
}
