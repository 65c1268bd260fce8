package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// DefaultHistoryLimit caps ListSessions when the filter sets no limit.
const DefaultHistoryLimit = 100

// SessionFilter narrows ListSessions. Zero fields match everything.
type SessionFilter struct {
	DeviceID int64
	UserID   int64
	Limit    int
}

// Store defines the interface for all database operations.
type Store interface {
	ArchiveSession(ctx context.Context, s lab.Session) error
	ListSessions(ctx context.Context, f SessionFilter) ([]model.UsageRecord, error)

	PutSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// UsageRecordFromSession converts a closed session into its archive row.
func UsageRecordFromSession(s lab.Session) model.UsageRecord {
	return model.UsageRecord{
		DeviceID:       s.DeviceID,
		DeviceName:     s.DeviceName,
		Variant:        s.Variant.String(),
		UserID:         s.UserID,
		ReservedStart:  s.ReservedStart,
		ReservedEnd:    s.ReservedEnd,
		BorrowedAt:     s.BorrowedAt,
		ReturnedAt:     s.ReturnedAt,
		DurationSecs:   int64(s.Duration() / time.Second),
		Late:           s.Late,
		Penalty:        s.Penalty,
		HealthAfter:    s.HealthAfter,
		AttributeAfter: s.AttributeAfter,
	}
}

func (s *gormStore) ArchiveSession(ctx context.Context, session lab.Session) error {
	record := UsageRecordFromSession(session)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to archive session for device %d: %w", session.DeviceID, err)
	}
	return nil
}

// ListSessions returns archived sessions, most recently returned first.
func (s *gormStore) ListSessions(ctx context.Context, f SessionFilter) ([]model.UsageRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	q := s.db.WithContext(ctx).Model(&model.UsageRecord{})
	if f.DeviceID != 0 {
		q = q.Where("device_id = ?", f.DeviceID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	var records []model.UsageRecord
	if err := q.Order("returned_at DESC").Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return records, nil
}

// PutSubscription creates the subscription or replaces the keys and owner of
// an existing one with the same endpoint.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", endpoint, err)
	}
	return nil
}

func (s *gormStore) SubscriptionsForUser(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for user %d: %w", userID, err)
	}
	return subs, nil
}
