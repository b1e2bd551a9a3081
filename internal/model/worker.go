package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 工作者状态
const (
	WorkerStatusPending   = "pending"
	WorkerStatusActive    = "active"
	WorkerStatusSuspended = "suspended"
)

// Worker 付费专家工作者
type Worker struct {
	ID                string    `json:"id" gorm:"primaryKey;size:64"`
	Name              string    `json:"name" gorm:"size:255"`
	Specialty         string    `json:"specialty" gorm:"size:100;index:idx_workers_specialty"`
	Capabilities      []string  `json:"capabilities" gorm:"serializer:json;type:text"`
	Limitations       []string  `json:"limitations" gorm:"serializer:json;type:text"`
	ReputationScore   float64   `json:"reputation_score" gorm:"default:0"` // 0.0 - 5.0
	CompletionCount   int       `json:"completion_count" gorm:"default:0"`
	Pricing           float64   `json:"pricing" gorm:"default:0"`
	AvgCompletionTime float64   `json:"avg_completion_time" gorm:"default:0"` // 分钟
	Status            string    `json:"status" gorm:"size:20;default:'pending';index:idx_workers_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Worker) TableName() string {
	return "workers"
}

// IsActive 是否可参与匹配
func (w *Worker) IsActive() bool {
	return w.Status == WorkerStatusActive
}

// Validate 校验字段取值范围
func (w *Worker) Validate() error {
	switch {
	case w.ReputationScore < 0 || w.ReputationScore > 5:
		return errors.New("reputation_score must be between 0 and 5")
	case w.CompletionCount < 0:
		return errors.New("completion_count must not be negative")
	case w.Pricing < 0:
		return errors.New("pricing must not be negative")
	case w.AvgCompletionTime < 0:
		return errors.New("avg_completion_time must not be negative")
	}
	switch w.Status {
	case WorkerStatusPending, WorkerStatusActive, WorkerStatusSuspended:
	default:
		return errors.New("status must be one of pending, active, suspended")
	}
	return nil
}

// BeforeCreate GORM 钩子：生成 ID 并校验
func (w *Worker) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = WorkerStatusPending
	}
	return w.Validate()
}
