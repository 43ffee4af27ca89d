package dto

// CreateDiscussionRequest 创建讨论帖，show_id / episode_id 至少其一
type CreateDiscussionRequest struct {
	ShowID    *int64 `json:"show_id,omitempty"`
	EpisodeID *int64 `json:"episode_id,omitempty"`
	Title     string `json:"title" binding:"required,min=3,max=200"`
	Body      string `json:"body" binding:"max=20000"`
}

// DiscussionItem 讨论帖条目
type DiscussionItem struct {
	ID        int64        `json:"id"`
	User      *CommentUser `json:"user"`
	ShowID    *int64       `json:"show_id,omitempty"`
	EpisodeID *int64       `json:"episode_id,omitempty"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	CreatedAt string       `json:"created_at"`
}
