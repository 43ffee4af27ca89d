package dto

import (
	"time"
)

// ActivityQuery 动态列表查询参数
type ActivityQuery struct {
	Types    []string   // 类型过滤，空为全部
	Groups   []string   // 分组过滤，空为全部
	From     *time.Time // 起始时间（含）
	To       *time.Time // 截止时间（含）
	Mode     string     // you: 本人发出；incoming: 本人接收
	Page     int
	PageSize int
}

// ActivityModes 查询模式
const (
	ActivityModeYou      = "you"
	ActivityModeIncoming = "incoming"
)

// ActivityItem 动态条目，附带解析后的分组
type ActivityItem struct {
	ID            int64        `json:"id"`
	Type          string       `json:"type"`
	ActivityGroup string       `json:"activityGroup"`
	Giver         *CommentUser `json:"giver,omitempty"`
	GiverID       int64        `json:"giverId"`
	RecipientID   int64        `json:"recipientId"`
	Metadata      string       `json:"metadata,omitempty"`
	CreatedAt     string       `json:"createdAt"`
}

// PrivacySettingsResponse 隐私设置
type PrivacySettingsResponse struct {
	ActivityPublic bool            `json:"activity_public"`
	Groups         map[string]bool `json:"groups"`
}

// UpdatePrivacyRequest 更新隐私设置
type UpdatePrivacyRequest struct {
	ActivityPublic *bool           `json:"activity_public,omitempty"`
	Groups         map[string]bool `json:"groups,omitempty"`
}
