package model

import (
	"time"
)

// MaxCommentDepth 评论最大嵌套层级，顶层为 0
const MaxCommentDepth = 5

// CommentRootKind 评论根实体类型
type CommentRootKind string

const (
	RootDiscussion CommentRootKind = "discussion"
	RootPrediction CommentRootKind = "prediction"
)

// CommentRoot 标识评论树挂载的根实体
type CommentRoot struct {
	Kind CommentRootKind
	ID   int64
}

// Comment 归属讨论或预测市场二者之一（互斥），软删除保留行以维持子树锚点
type Comment struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	DiscussionID *int64    `gorm:"index" json:"discussion_id,omitempty"`
	PredictionID *int64    `gorm:"index" json:"prediction_id,omitempty"`
	ParentID     *int64    `gorm:"index" json:"parent_id,omitempty"`
	Depth        int       `gorm:"not null;default:0" json:"depth"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	IsDeleted    bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	User    *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []*Comment `gorm:"-" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
