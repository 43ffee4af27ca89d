package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create 写入动态记录
func (r *ActivityRepository) Create(record *model.ActivityRecord) error {
	return r.db.Create(record).Error
}

// CreateTx 在给定事务中写入动态记录
func (r *ActivityRepository) CreateTx(tx *gorm.DB, record *model.ActivityRecord) error {
	return tx.Create(record).Error
}

// ActivityFilter 动态查询条件，列表与计数共用同一份过滤逻辑
type ActivityFilter struct {
	// TargetID 为查询对象的用户 ID
	TargetID int64
	// Incoming 为 true 时按接收者过滤，否则按发起者过滤
	Incoming bool
	// AllowedTypes 为 nil 表示不限制类型，空切片表示全部不可见
	AllowedTypes []model.ActivityType
	From         *time.Time
	To           *time.Time
}

// buildQuery 构造过滤条件，确保 List 与 Count 使用完全相同的谓词
func (r *ActivityRepository) buildQuery(filter ActivityFilter) *gorm.DB {
	q := r.db.Model(&model.ActivityRecord{})

	if filter.Incoming {
		q = q.Where("recipient_id = ?", filter.TargetID)
	} else {
		q = q.Where("giver_id = ?", filter.TargetID)
	}

	if filter.AllowedTypes != nil {
		q = q.Where("type IN ?", filter.AllowedTypes)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	return q
}

// List 分页查询动态，按时间倒序
func (r *ActivityRepository) List(filter ActivityFilter, page, pageSize int) ([]*model.ActivityRecord, error) {
	if filter.AllowedTypes != nil && len(filter.AllowedTypes) == 0 {
		return nil, nil
	}

	var records []*model.ActivityRecord
	err := r.buildQuery(filter).
		Preload("Giver").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, err
}

// Count 统计满足条件的动态数，与 List 使用同一谓词
func (r *ActivityRepository) Count(filter ActivityFilter) (int64, error) {
	if filter.AllowedTypes != nil && len(filter.AllowedTypes) == 0 {
		return 0, nil
	}

	var count int64
	err := r.buildQuery(filter).Count(&count).Error
	return count, err
}
