package model

import (
	"time"
)

// PrivacySetting 每 (user, group) 一行，缺省视为可见；
// 全局开关在 User.ActivityPublic，关闭时所有分组一律不可见
type PrivacySetting struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	UserID    int64         `gorm:"not null;uniqueIndex:idx_user_group" json:"user_id"`
	Group     ActivityGroup `gorm:"size:20;not null;uniqueIndex:idx_user_group" json:"group"`
	// 不带 default 标签：带默认值的零值字段会被 gorm 省略，false 将写成 true
	Visible   bool          `gorm:"not null" json:"visible"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (PrivacySetting) TableName() string {
	return "privacy_settings"
}
