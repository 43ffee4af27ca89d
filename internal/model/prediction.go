package model

import (
	"time"
)

// 市场状态
const (
	MarketOpen    = "open"
	MarketLocked  = "locked"
	MarketSettled = "settled"
)

// 下注方向
const (
	SideYes = "YES"
	SideNo  = "NO"
)

// Prediction 单集结果的 YES/NO 预测市场，评论树的根实体之一
type Prediction struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	CreatorID int64      `gorm:"not null;index" json:"creator_id"`
	EpisodeID int64      `gorm:"not null;index" json:"episode_id"`
	Question  string     `gorm:"size:300;not null" json:"question"`
	Status    string     `gorm:"size:10;not null;default:open;index" json:"status"`
	Outcome   *string    `gorm:"size:5" json:"outcome,omitempty"` // YES / NO，结算后填写
	YesPool   int64      `gorm:"not null;default:0" json:"yes_pool"`
	NoPool    int64      `gorm:"not null;default:0" json:"no_pool"`
	ClosesAt  time.Time  `gorm:"not null" json:"closes_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// Position 一笔下注即一行，份额 1:1 对应投入积分，结算时按池比例派彩
type Position struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	PredictionID int64     `gorm:"not null;index" json:"prediction_id"`
	Side         string    `gorm:"size:5;not null" json:"side"`
	Stake        int64     `gorm:"not null" json:"stake"`
	Payout       *int64    `json:"payout,omitempty"` // 结算后填写，输家为 0
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}
