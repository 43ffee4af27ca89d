package dto

// VoteCommentRequest 历史接口以数字字符串表示极性："1" 赞，"-1" 踩
type VoteCommentRequest struct {
	Value string `json:"value" binding:"required,oneof=1 -1"`
}

// VoteCommentResponse 返回最新计票与请求者当前投票
type VoteCommentResponse struct {
	CommentID int64  `json:"commentId"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	Score     int    `json:"score"`
	UserVote  string `json:"userVote"`
}
