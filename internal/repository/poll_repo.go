package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unscripted/unscripted-server/internal/model"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Create 创建投票及其选项
func (r *PollRepository) Create(poll *model.Poll) error {
	return r.db.Create(poll).Error
}

// GetByID 根据 ID 获取投票，含选项
func (r *PollRepository) GetByID(id int64) (*model.Poll, error) {
	var poll model.Poll
	err := r.db.Preload("Options").Where("id = ?", id).First(&poll).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// ListByShow 分页获取节目下的投票
func (r *PollRepository) ListByShow(showID int64, page, pageSize int) ([]*model.Poll, int64, error) {
	q := r.db.Model(&model.Poll{}).Where("show_id = ?", showID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var polls []*model.Poll
	err := q.Preload("Options").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&polls).Error
	return polls, total, err
}

// UpsertVote 写入或改选，唯一约束 (poll_id, user_id) 保证每人一票
func (r *PollRepository) UpsertVote(vote *model.PollVote) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "updated_at"}),
	}).Create(vote).Error
}

// GetUserVote 获取用户在某投票中的选择
func (r *PollRepository) GetUserVote(pollID, userID int64) (*model.PollVote, error) {
	var vote model.PollVote
	err := r.db.Where("poll_id = ? AND user_id = ?", pollID, userID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountByOption 统计投票各选项票数
func (r *PollRepository) CountByOption(pollID int64) (map[int64]int64, error) {
	var rows []struct {
		OptionID int64
		Count    int64
	}
	err := r.db.Model(&model.PollVote{}).
		Select("option_id, COUNT(*) AS count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Count
	}
	return counts, nil
}
