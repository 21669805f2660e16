package queue

import (
	"context"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// FailedJobRecord is the row written to failed_jobs when a job gives up.
// The table is created by the failed_jobs migration.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

func (m *Manager) recordFailed(ctx context.Context, env envelope, lastErr error, attempts int) {
	now := time.Now()

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type: env.Type, Payload: env.Payload, Err: lastErr, FailedAt: now, Attempts: attempts,
	})
	m.mu.Unlock()

	logger.Error("queue: job failed permanently", "type", env.Type, "attempts", attempts, "error", lastErr)

	if m.db == nil {
		return
	}

	rec := FailedJobRecord{
		JobType:  env.Type,
		Payload:  string(env.Payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: now,
	}
	if err := m.db.WithContext(context.WithoutCancel(ctx)).Create(&rec).Error; err != nil {
		logger.Error("queue: persist failed job", "type", env.Type, "error", err)
	}
}
