package model

import (
	"errors"
	"time"
)

// VotePolarity 内部统一使用命名值，历史接口的 "1"/"-1" 仅在边界转换
type VotePolarity string

const (
	VoteUp   VotePolarity = "UPVOTE"
	VoteDown VotePolarity = "DOWNVOTE"
)

var ErrInvalidPolarity = errors.New("无效的投票值")

// ParsePolarity 将历史接口编码 "1"/"-1" 转为命名值
func ParsePolarity(wire string) (VotePolarity, error) {
	switch wire {
	case "1":
		return VoteUp, nil
	case "-1":
		return VoteDown, nil
	default:
		return "", ErrInvalidPolarity
	}
}

// WireValue 命名值转回历史接口编码
func (p VotePolarity) WireValue() string {
	if p == VoteUp {
		return "1"
	}
	return "-1"
}

// CommentVote 每个 (comment, voter) 至多一行，由唯一索引保证，改票走 upsert
type CommentVote struct {
	ID        int64        `gorm:"primaryKey" json:"id"`
	CommentID int64        `gorm:"not null;uniqueIndex:idx_comment_voter" json:"comment_id"`
	UserID    int64        `gorm:"not null;uniqueIndex:idx_comment_voter" json:"user_id"`
	Value     VotePolarity `gorm:"size:10;not null" json:"value"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
