package parse

import (
	"fmt"
	"strconv"
	"strings"

	"lab-reservation-backend/internal/lab"
)

var variantAliases = map[string]lab.Variant{
	"consumable": lab.Consumable,
	"precision":  lab.Precision,
	"power":      lab.Power,
}

var rankAliases = map[string]lab.Rank{
	"student": lab.Student,
	"teacher": lab.Teacher,
	"admin":   lab.Admin,
}

// normalize lowercases, trims and folds separators so "Power", " power " and
// "POWER" all match.
func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.ReplaceAll(s, " ", "-")
}

// Variant parses a device variant by name ("consumable", "precision", "power")
// or by its numeric code (0, 1, 2).
func Variant(raw string) (lab.Variant, error) {
	s := normalize(raw)
	if v, ok := variantAliases[s]; ok {
		return v, nil
	}
	if n, err := strconv.Atoi(s); err == nil && lab.Variant(n).Valid() {
		return lab.Variant(n), nil
	}
	return 0, fmt.Errorf("unknown device variant %q", raw)
}

// Rank parses a user rank by name ("student", "teacher", "admin") or by its
// numeric code (0, 1, 2).
func Rank(raw string) (lab.Rank, error) {
	s := normalize(raw)
	if r, ok := rankAliases[s]; ok {
		return r, nil
	}
	if n, err := strconv.Atoi(s); err == nil && lab.Rank(n).Valid() {
		return lab.Rank(n), nil
	}
	return 0, fmt.Errorf("unknown user rank %q", raw)
}

// Policy resolves a conflict policy name such as "teacher-priority" or
// "first_come".
func Policy(raw string) (lab.ConflictPolicy, error) {
	return lab.PolicyByName(normalize(raw))
}
