package model

import (
	"time"
)

type Poll struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ShowID    int64     `gorm:"not null;index" json:"show_id"`
	Question  string    `gorm:"size:300;not null" json:"question"`
	CreatedAt time.Time `json:"created_at"`

	Options []*PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
}

func (Poll) TableName() string {
	return "polls"
}

type PollOption struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	PollID int64  `gorm:"not null;index" json:"poll_id"`
	Label  string `gorm:"size:200;not null" json:"label"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote 每 (poll, user) 一票，改选走 upsert
type PollVote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PollID    int64     `gorm:"not null;uniqueIndex:idx_poll_voter" json:"poll_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_poll_voter" json:"user_id"`
	OptionID  int64     `gorm:"not null;index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PollVote) TableName() string {
	return "poll_votes"
}
