package model

import (
	"time"
)

// Review 评测目标为节目、季或集三者之一（互斥）
type Review struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ShowID    *int64    `gorm:"index" json:"show_id,omitempty"`
	SeasonID  *int64    `gorm:"index" json:"season_id,omitempty"`
	EpisodeID *int64    `gorm:"index" json:"episode_id,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-10
	Title     string    `gorm:"size:200" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
