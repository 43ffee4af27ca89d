package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unscripted/unscripted-server/internal/model"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Upsert 加入片单或更新状态，唯一约束 (user_id, show_id) 保证每节目一行
func (r *WatchlistRepository) Upsert(item *model.WatchlistItem) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "show_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(item).Error
}

// Get 获取用户对某节目的片单项
func (r *WatchlistRepository) Get(userID, showID int64) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := r.db.Where("user_id = ? AND show_id = ?", userID, showID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Exists 检查节目是否已在片单
func (r *WatchlistRepository) Exists(userID, showID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).
		Where("user_id = ? AND show_id = ?", userID, showID).
		Count(&count).Error
	return count > 0, err
}

// Delete 从片单移除节目
func (r *WatchlistRepository) Delete(userID, showID int64) error {
	return r.db.Where("user_id = ? AND show_id = ?", userID, showID).
		Delete(&model.WatchlistItem{}).Error
}

// ListByUser 分页获取用户片单，status 为可选过滤
func (r *WatchlistRepository) ListByUser(userID int64, status string, page, pageSize int) ([]*model.WatchlistItem, int64, error) {
	q := r.db.Model(&model.WatchlistItem{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*model.WatchlistItem
	err := q.Preload("Show").
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}
