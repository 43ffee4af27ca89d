package model

import (
	"time"
)

// Show 节目目录为只读参照数据，由运营导入维护
type Show struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null;index" json:"title"`
	Network     string    `gorm:"size:100" json:"network"`
	Genre       string    `gorm:"size:50;index" json:"genre"` // competition, dating, docusoap ...
	Description string    `gorm:"type:text" json:"description"`
	PosterURL   string    `gorm:"size:500" json:"poster_url"`
	FirstAired  *time.Time `json:"first_aired,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Show) TableName() string {
	return "shows"
}

type Season struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ShowID    int64     `gorm:"not null;index" json:"show_id"`
	Number    int       `gorm:"not null" json:"number"`
	Title     string    `gorm:"size:200" json:"title"`
	PremiereAt *time.Time `json:"premiere_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Season) TableName() string {
	return "seasons"
}

type Episode struct {
	ID       int64      `gorm:"primaryKey" json:"id"`
	SeasonID int64      `gorm:"not null;index" json:"season_id"`
	Number   int        `gorm:"not null" json:"number"`
	Title    string     `gorm:"size:200" json:"title"`
	AirsAt   *time.Time `json:"airs_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Episode) TableName() string {
	return "episodes"
}
