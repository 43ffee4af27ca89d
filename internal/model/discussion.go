package model

import (
	"time"
)

// Discussion 讨论帖，评论树的根实体之一
type Discussion struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ShowID    *int64    `gorm:"index" json:"show_id,omitempty"`
	EpisodeID *int64    `gorm:"index" json:"episode_id,omitempty"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Discussion) TableName() string {
	return "discussions"
}
