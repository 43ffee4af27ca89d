package repository

import (
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type DiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// Create 创建讨论帖
func (r *DiscussionRepository) Create(discussion *model.Discussion) error {
	return r.db.Create(discussion).Error
}

// GetByID 根据 ID 获取讨论帖
func (r *DiscussionRepository) GetByID(id int64) (*model.Discussion, error) {
	var discussion model.Discussion
	err := r.db.Preload("User").Where("id = ?", id).First(&discussion).Error
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

// List 分页查询讨论帖，showID 与 episodeID 为可选过滤
func (r *DiscussionRepository) List(showID, episodeID *int64, page, pageSize int) ([]*model.Discussion, int64, error) {
	q := r.db.Model(&model.Discussion{})
	if showID != nil {
		q = q.Where("show_id = ?", *showID)
	}
	if episodeID != nil {
		q = q.Where("episode_id = ?", *episodeID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var discussions []*model.Discussion
	err := q.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&discussions).Error
	return discussions, total, err
}

// Delete 删除讨论帖
func (r *DiscussionRepository) Delete(id int64) error {
	return r.db.Delete(&model.Discussion{}, id).Error
}
