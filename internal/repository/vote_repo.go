package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unscripted/unscripted-server/internal/model"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Get 获取用户在某条评论上的投票
func (r *VoteRepository) Get(commentID, userID int64) (*model.CommentVote, error) {
	var vote model.CommentVote
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Upsert 写入或覆盖投票，唯一约束 (comment_id, user_id) 保证幂等
func (r *VoteRepository) Upsert(vote *model.CommentVote) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(vote).Error
}

// VoteTally 单条评论的票数汇总
type VoteTally struct {
	Upvotes   int
	Downvotes int
}

// TallyByCommentIDs 批量统计评论票数
func (r *VoteRepository) TallyByCommentIDs(commentIDs []int64) (map[int64]VoteTally, error) {
	tallies := make(map[int64]VoteTally)
	if len(commentIDs) == 0 {
		return tallies, nil
	}

	var rows []struct {
		CommentID int64
		Value     string
		Count     int
	}
	err := r.db.Model(&model.CommentVote{}).
		Select("comment_id, value, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, value").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		tally := tallies[row.CommentID]
		switch model.VotePolarity(row.Value) {
		case model.VoteUp:
			tally.Upvotes = row.Count
		case model.VoteDown:
			tally.Downvotes = row.Count
		}
		tallies[row.CommentID] = tally
	}
	return tallies, nil
}

// UserVotesByCommentIDs 批量获取某用户在一组评论上的投票
func (r *VoteRepository) UserVotesByCommentIDs(userID int64, commentIDs []int64) (map[int64]model.VotePolarity, error) {
	votes := make(map[int64]model.VotePolarity)
	if len(commentIDs) == 0 {
		return votes, nil
	}

	var rows []*model.CommentVote
	err := r.db.Where("user_id = ? AND comment_id IN ?", userID, commentIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		votes[row.CommentID] = row.Value
	}
	return votes, nil
}
