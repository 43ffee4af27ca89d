package model

import (
	"time"
)

// Follow 每 (follower, followee) 至多一行
type Follow struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID int64     `gorm:"not null;uniqueIndex:idx_follower_followee;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
