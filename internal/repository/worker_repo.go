package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
)

// ErrWorkerNotFound 工作者不存在
var ErrWorkerNotFound = errors.New("worker not found")

// WorkerRepository 工作者注册表
// 匹配流程只读，写操作用于初始化数据与管理
type WorkerRepository interface {
	// ListActive 列出所有 active 工作者
	ListActive(ctx context.Context) ([]*model.Worker, error)

	// ListActiveBySpecialty 按专长列出 active 工作者
	ListActiveBySpecialty(ctx context.Context, specialty string) ([]*model.Worker, error)

	// GetByID 根据 ID 获取
	GetByID(ctx context.Context, id string) (*model.Worker, error)

	// List 列出全部工作者
	List(ctx context.Context) ([]*model.Worker, error)

	// Create 创建工作者
	Create(ctx context.Context, worker *model.Worker) error

	// Upsert 按 ID 创建或整体覆盖
	Upsert(ctx context.Context, worker *model.Worker) error

	// UpdateStatus 更新状态
	UpdateStatus(ctx context.Context, id string, status string) error

	// Delete 删除工作者
	Delete(ctx context.Context, id string) error
}

type workerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository 创建工作者仓储
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{db: db}
}

// ListActive 按 ID 排序，保证枚举顺序稳定
func (r *workerRepository) ListActive(ctx context.Context) ([]*model.Worker, error) {
	var workers []*model.Worker
	err := r.db.WithContext(ctx).
		Where("status = ?", model.WorkerStatusActive).
		Order("id ASC").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepository) ListActiveBySpecialty(ctx context.Context, specialty string) ([]*model.Worker, error) {
	var workers []*model.Worker
	err := r.db.WithContext(ctx).
		Where("status = ? AND specialty = ?", model.WorkerStatusActive, specialty).
		Order("id ASC").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepository) GetByID(ctx context.Context, id string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepository) List(ctx context.Context) ([]*model.Worker, error) {
	var workers []*model.Worker
	err := r.db.WithContext(ctx).Order("id ASC").Find(&workers).Error
	return workers, err
}

func (r *workerRepository) Create(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *workerRepository) Upsert(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(worker).Error
}

func (r *workerRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	w := &model.Worker{Status: status}
	if err := w.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

func (r *workerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Worker{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}
