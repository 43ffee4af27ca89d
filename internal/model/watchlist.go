package model

import (
	"time"
)

// 追剧状态
const (
	WatchStatusWatching = "watching"
	WatchStatusPlanned  = "planned"
	WatchStatusFinished = "finished"
)

type WatchlistItem struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_user_show" json:"user_id"`
	ShowID    int64     `gorm:"not null;uniqueIndex:idx_user_show" json:"show_id"`
	Status    string    `gorm:"size:10;not null;default:planned" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Show *Show `gorm:"foreignKey:ShowID" json:"show,omitempty"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
