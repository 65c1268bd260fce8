package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-reservation-backend/internal/lab"
)

func TestVariant(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  lab.Variant
		expectErr bool
	}{
		{name: "Consumable", raw: "consumable", expected: lab.Consumable},
		{name: "Mixed case with spaces", raw: "  Precision ", expected: lab.Precision},
		{name: "Upper case", raw: "POWER", expected: lab.Power},
		{name: "Numeric code", raw: "2", expected: lab.Power},
		{name: "Numeric out of range", raw: "3", expectErr: true},
		{name: "Unknown", raw: "hydraulic", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Variant(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestRank(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  lab.Rank
		expectErr bool
	}{
		{name: "Student", raw: "student", expected: lab.Student},
		{name: "Teacher upper", raw: "Teacher", expected: lab.Teacher},
		{name: "Admin numeric", raw: "2", expected: lab.Admin},
		{name: "Negative", raw: "-1", expectErr: true},
		{name: "Unknown", raw: "guest", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Rank(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r)
		})
	}
}

func TestPolicy(t *testing.T) {
	p, err := Policy("First_Come")
	require.NoError(t, err)
	assert.Equal(t, lab.RejectNew, p(lab.Teacher, lab.Student, false))

	p, err = Policy("teacher priority")
	require.NoError(t, err)
	assert.Equal(t, lab.RemoveExisting, p(lab.Teacher, lab.Student, false))

	_, err = Policy("random")
	assert.Error(t, err)
}
