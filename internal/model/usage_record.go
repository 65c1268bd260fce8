package model

import "time"

// UsageRecord is the archived history of one completed borrow session.
type UsageRecord struct {
	ID             int64     `gorm:"primaryKey"`
	DeviceID       int64     `gorm:"not null;index:idx_usage_device_returned,priority:1"`
	DeviceName     string    `gorm:"size:256;not null"`
	Variant        string    `gorm:"size:32;not null"`
	UserID         int64     `gorm:"not null;index"`
	ReservedStart  time.Time `gorm:"not null"`
	ReservedEnd    time.Time `gorm:"not null"`
	BorrowedAt     time.Time `gorm:"not null"`
	ReturnedAt     time.Time `gorm:"not null;index:idx_usage_device_returned,priority:2"`
	DurationSecs   int64     `gorm:"not null"`
	Late           bool      `gorm:"not null"`
	Penalty        int       `gorm:"not null"`
	HealthAfter    int       `gorm:"not null"`
	AttributeAfter float64   `gorm:"not null"`
	CreatedAt      time.Time
}
