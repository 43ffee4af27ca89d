package model

import (
	"time"
)

// ActivityType 动态类型标签
type ActivityType string

const (
	ActivityReviewCreated     ActivityType = "REVIEW_CREATED"
	ActivityDiscussionCreated ActivityType = "DISCUSSION_CREATED"
	ActivityPollCreated       ActivityType = "POLL_CREATED"
	ActivityCommentAdded      ActivityType = "COMMENT_ADDED"
	ActivityCommentUpvoted    ActivityType = "COMMENT_UPVOTED"
	ActivityCommentDownvoted  ActivityType = "COMMENT_DOWNVOTED"
	ActivityPollVoted         ActivityType = "POLL_VOTED"
	ActivityBetPlaced         ActivityType = "BET_PLACED"
	ActivityMarketSettled     ActivityType = "MARKET_SETTLED"
	ActivityMarketPayout      ActivityType = "MARKET_PAYOUT"
	ActivityUserFollowed      ActivityType = "USER_FOLLOWED"
	ActivityWatchlistAdded    ActivityType = "WATCHLIST_ADDED"
)

// ActivityGroup 动态分组，隐私设置按组生效
type ActivityGroup string

const (
	GroupContent    ActivityGroup = "content"
	GroupEngagement ActivityGroup = "engagement"
	GroupMarket     ActivityGroup = "market"
	GroupSocial     ActivityGroup = "social"
)

// ActivityGroups 类型到分组的静态映射，只读参照数据
var ActivityGroups = map[ActivityType]ActivityGroup{
	ActivityReviewCreated:     GroupContent,
	ActivityDiscussionCreated: GroupContent,
	ActivityPollCreated:       GroupContent,
	ActivityCommentAdded:      GroupEngagement,
	ActivityCommentUpvoted:    GroupEngagement,
	ActivityCommentDownvoted:  GroupEngagement,
	ActivityPollVoted:         GroupEngagement,
	ActivityBetPlaced:         GroupMarket,
	ActivityMarketSettled:     GroupMarket,
	ActivityMarketPayout:      GroupMarket,
	ActivityUserFollowed:      GroupSocial,
	ActivityWatchlistAdded:    GroupSocial,
}

// GroupOf 返回类型所属分组
func (t ActivityType) GroupOf() ActivityGroup {
	return ActivityGroups[t]
}

// TypesInGroups 返回属于给定分组集合的全部类型
func TypesInGroups(groups map[ActivityGroup]bool) []ActivityType {
	var types []ActivityType
	for t, g := range ActivityGroups {
		if groups[g] {
			types = append(types, t)
		}
	}
	return types
}

// ActivityRecord 一次创建后不可变，正常流程不更新不删除
type ActivityRecord struct {
	ID          int64        `gorm:"primaryKey" json:"id"`
	GiverID     int64        `gorm:"not null;index" json:"giver_id"`     // 动作发起者
	RecipientID int64        `gorm:"not null;index" json:"recipient_id"` // 动作接收者
	Type        ActivityType `gorm:"size:30;not null;index" json:"type"`
	Metadata    string       `gorm:"type:text" json:"metadata"` // JSON 负载，可为空
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`

	Giver *User `gorm:"foreignKey:GiverID" json:"giver,omitempty"`
}

func (ActivityRecord) TableName() string {
	return "activity_records"
}
