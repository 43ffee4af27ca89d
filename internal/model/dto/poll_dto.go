package dto

// CreatePollRequest 创建投票
type CreatePollRequest struct {
	ShowID   int64    `json:"show_id" binding:"required"`
	Question string   `json:"question" binding:"required,min=5,max=300"`
	Options  []string `json:"options" binding:"required,min=2,max=10,dive,min=1,max=200"`
}

// VotePollRequest 投票/改选
type VotePollRequest struct {
	OptionID int64 `json:"option_id" binding:"required"`
}

// PollResultOption 单个选项的计票
type PollResultOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Votes int64  `json:"votes"`
}

// PollResult 投票结果
type PollResult struct {
	ID         int64               `json:"id"`
	Question   string              `json:"question"`
	TotalVotes int64               `json:"total_votes"`
	Options    []*PollResultOption `json:"options"`
	UserOption *int64              `json:"user_option,omitempty"` // 请求者所投选项
	CreatedAt  string              `json:"created_at"`
}
