package repository

import (
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create 创建关注关系
func (r *FollowRepository) Create(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

// Delete 取消关注
func (r *FollowRepository) Delete(followerID, followeeID int64) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

// Exists 检查关注关系是否存在
func (r *FollowRepository) Exists(followerID, followeeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowerIDs 分页获取关注者 ID
func (r *FollowRepository) ListFollowerIDs(userID int64, page, pageSize int) ([]int64, int64, error) {
	q := r.db.Model(&model.Follow{}).Where("followee_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Pluck("follower_id", &ids).Error
	return ids, total, err
}

// ListFolloweeIDs 分页获取关注对象 ID
func (r *FollowRepository) ListFolloweeIDs(userID int64, page, pageSize int) ([]int64, int64, error) {
	q := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Pluck("followee_id", &ids).Error
	return ids, total, err
}

// Counts 返回关注数与粉丝数
func (r *FollowRepository) Counts(userID int64) (following int64, followers int64, err error) {
	if err = r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return
	}
	err = r.db.Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&followers).Error
	return
}
