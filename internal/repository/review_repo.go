package repository

import (
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建评测
func (r *ReviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

// GetByID 根据 ID 获取评测
func (r *ReviewRepository) GetByID(id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update 保存评测
func (r *ReviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

// Delete 删除评测
func (r *ReviewRepository) Delete(id int64) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// byTarget 按评测目标过滤，节目、季、集三者取其一
func byTarget(q *gorm.DB, showID, seasonID, episodeID *int64) *gorm.DB {
	switch {
	case showID != nil:
		return q.Where("show_id = ?", *showID)
	case seasonID != nil:
		return q.Where("season_id = ?", *seasonID)
	default:
		return q.Where("episode_id = ?", *episodeID)
	}
}

// ListByTarget 分页获取目标下的评测
func (r *ReviewRepository) ListByTarget(showID, seasonID, episodeID *int64, page, pageSize int) ([]*model.Review, int64, error) {
	q := byTarget(r.db.Model(&model.Review{}), showID, seasonID, episodeID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := q.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

// ExistsByUserAndTarget 检查用户是否已评测过该目标
func (r *ReviewRepository) ExistsByUserAndTarget(userID int64, showID, seasonID, episodeID *int64) (bool, error) {
	q := byTarget(r.db.Model(&model.Review{}), showID, seasonID, episodeID)

	var count int64
	err := q.Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// ListByUser 分页获取用户的评测
func (r *ReviewRepository) ListByUser(userID int64, page, pageSize int) ([]*model.Review, int64, error) {
	q := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

// AverageRating 计算目标的平均分，无评测时返回 0
func (r *ReviewRepository) AverageRating(showID, seasonID, episodeID *int64) (float64, error) {
	q := byTarget(r.db.Model(&model.Review{}), showID, seasonID, episodeID)

	var avg *float64
	err := q.Select("AVG(rating)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
