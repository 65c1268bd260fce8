package lab

import "errors"

// Failure kinds reported by Manager operations. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrBusy              = errors.New("busy")
	ErrAlreadyExists     = errors.New("already exists")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrInvalidInterval, "invalid_interval"},
	{ErrPermissionDenied, "permission_denied"},
	{ErrDeviceUnavailable, "device_unavailable"},
	{ErrConflict, "conflict"},
	{ErrInvalidState, "invalid_state"},
	{ErrBusy, "busy"},
	{ErrAlreadyExists, "already_exists"},
}

// Kind returns a stable label for err: "ok" for nil, one of the sentinel names,
// or "internal" for anything else.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
