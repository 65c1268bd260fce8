package lab

import (
	"fmt"
	"time"
)

// Variant is the closed set of device kinds. It selects the wear formula and
// the maintenance baseline.
type Variant int

const (
	Consumable Variant = iota
	Precision
	Power
)

func (v Variant) String() string {
	if spec, ok := variants[v]; ok {
		return spec.name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Valid reports whether v is one of the defined variants.
func (v Variant) Valid() bool {
	_, ok := variants[v]
	return ok
}

// Attribute names the variant-specific continuous attribute.
func (v Variant) Attribute() string {
	return variants[v].attribute
}

// variantSpec holds the per-variant wear and maintenance behavior.
type variantSpec struct {
	name      string
	attribute string
	baseline  float64

	// rates are per borrowed hour
	attributeRate float64
	healthRate    float64
	clampFloor    bool
}

var variants = map[Variant]variantSpec{
	Consumable: {name: "consumable", attribute: "materialLevel", baseline: 100, attributeRate: -5, healthRate: 2, clampFloor: true},
	Precision:  {name: "precision", attribute: "calibration", baseline: 100, attributeRate: -8, healthRate: 1, clampFloor: true},
	Power:      {name: "power", attribute: "temperature", baseline: 25, attributeRate: 10, healthRate: 3, clampFloor: false},
}

const fullHealth = 100

// Status is a device's operational state, derived on every read.
type Status int

const (
	Idle Status = iota
	Reserved
	InUse
	Broken
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reserved:
		return "reserved"
	case InUse:
		return "in_use"
	case Broken:
		return "broken"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Device is a piece of shared equipment. Reservations keep insertion order.
type Device struct {
	ID           int64
	Name         string
	Variant      Variant
	Health       int
	Attribute    float64
	AllowStudent bool
	Reservations []Reservation
}

func newDevice(id int64, variant Variant, name string, allowStudent bool) *Device {
	return &Device{
		ID:           id,
		Name:         name,
		Variant:      variant,
		Health:       fullHealth,
		Attribute:    variants[variant].baseline,
		AllowStudent: allowStudent,
	}
}

// StatusAt derives the device status at now. A broken device is Broken whatever
// its reservations say. Otherwise the first reservation covering now decides;
// if several overlap, the earliest inserted one wins.
func (d *Device) StatusAt(now time.Time) Status {
	if d.Health <= 0 {
		return Broken
	}
	for _, r := range d.Reservations {
		if r.Covers(now) {
			if r.Borrowed {
				return InUse
			}
			return Reserved
		}
	}
	return Idle
}

// applyWear degrades the device after a borrow session of the given length.
// Health loss is truncated to whole points.
func (d *Device) applyWear(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	spec := variants[d.Variant]
	hours := elapsed.Hours()

	d.Attribute += hours * spec.attributeRate
	if spec.clampFloor && d.Attribute < 0 {
		d.Attribute = 0
	}
	d.Health -= int(hours * spec.healthRate)
	if d.Health < 0 {
		d.Health = 0
	}
}

func (d *Device) maintain() {
	d.Health = fullHealth
	d.Attribute = variants[d.Variant].baseline
}

// busy reports whether maintenance or deletion must be refused. The borrowed
// flag is checked directly, not only the derived status.
func (d *Device) busy(now time.Time) bool {
	if d.StatusAt(now) == InUse {
		return true
	}
	for _, r := range d.Reservations {
		if r.Borrowed {
			return true
		}
	}
	return false
}

// activeIndex finds the user's reservation covering now, falling back to one
// the user already holds borrowed. It returns -1 when neither exists.
func (d *Device) activeIndex(userID int64, now time.Time) int {
	for i, r := range d.Reservations {
		if r.UserID == userID && r.Covers(now) {
			return i
		}
	}
	for i, r := range d.Reservations {
		if r.UserID == userID && r.Borrowed {
			return i
		}
	}
	return -1
}

func (d *Device) userIndex(userID int64) int {
	for i, r := range d.Reservations {
		if r.UserID == userID {
			return i
		}
	}
	return -1
}

func (d *Device) removeAt(i int) {
	d.Reservations = append(d.Reservations[:i], d.Reservations[i+1:]...)
}

// DeviceView is a read-only snapshot of a device with its derived status.
type DeviceView struct {
	ID           int64
	Name         string
	Variant      Variant
	Status       Status
	Health       int
	Attribute    float64
	AllowStudent bool
	Reservations []Reservation
}

func (d *Device) view(now time.Time) DeviceView {
	rs := make([]Reservation, len(d.Reservations))
	copy(rs, d.Reservations)
	return DeviceView{
		ID:           d.ID,
		Name:         d.Name,
		Variant:      d.Variant,
		Status:       d.StatusAt(now),
		Health:       d.Health,
		Attribute:    d.Attribute,
		AllowStudent: d.AllowStudent,
		Reservations: rs,
	}
}
