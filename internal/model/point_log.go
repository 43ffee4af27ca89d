package model

import (
	"time"
)

// PointLog 积分明细，余额变动必须与明细同事务写入
type PointLog struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Amount    int64     `gorm:"not null" json:"amount"` // 正数增加，负数扣除
	Action    string    `gorm:"size:50;not null" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (PointLog) TableName() string {
	return "point_logs"
}
