package dto

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentNode 评论树节点。
// 字段名沿用线上前端的 camelCase 约定，replies/score/wilsonScore/userVote
// 四个字段的名称与形状不可变更。
type CommentNode struct {
	ID        int64          `json:"id"`
	User      *CommentUser   `json:"user"`
	Content   string         `json:"content"`
	ParentID  *int64         `json:"parentId"`
	Depth     int            `json:"depth"`
	Deleted   bool           `json:"deleted"`
	Upvotes   int            `json:"upvotes"`
	Downvotes int            `json:"downvotes"`
	Score     int            `json:"score"`       // upvotes - downvotes
	WilsonScore float64      `json:"wilsonScore"` // 仅作排序键，不落库
	UserVote  *string        `json:"userVote,omitempty"` // UPVOTE / DOWNVOTE
	Replies   []*CommentNode `json:"replies"`
	CreatedAt string         `json:"createdAt"`
}

// CommentUser 评论作者信息
type CommentUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// CommentTreeQuery 评论树查询参数。ParentID 非空时以该评论的直接子层为锚点，
// MaxDepth 为锚点层以下展开的回复层数，0 表示只取锚点层，越界取最大嵌套深度
type CommentTreeQuery struct {
	Sort     string
	ParentID *int64
	MaxDepth int
	Page     int
	PageSize int
}

// CommentStats 根实体的评论统计，与分页无关
type CommentStats struct {
	TopLevelCount int64 `json:"topLevelCount"`
	ReplyCount    int64 `json:"replyCount"`
}
