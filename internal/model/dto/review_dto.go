package dto

// CreateReviewRequest 目标三选一，服务层校验互斥
type CreateReviewRequest struct {
	ShowID    *int64 `json:"show_id,omitempty"`
	SeasonID  *int64 `json:"season_id,omitempty"`
	EpisodeID *int64 `json:"episode_id,omitempty"`
	Rating    int    `json:"rating" binding:"required,min=1,max=10"`
	Title     string `json:"title" binding:"max=200"`
	Body      string `json:"body" binding:"max=10000"`
}

// UpdateReviewRequest 仅评分与文字可改，目标不可改
type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=10"`
	Title  *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Body   *string `json:"body,omitempty" binding:"omitempty,max=10000"`
}

// ReviewItem 评测条目
type ReviewItem struct {
	ID        int64        `json:"id"`
	User      *CommentUser `json:"user"`
	ShowID    *int64       `json:"show_id,omitempty"`
	SeasonID  *int64       `json:"season_id,omitempty"`
	EpisodeID *int64       `json:"episode_id,omitempty"`
	Rating    int          `json:"rating"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	CreatedAt string       `json:"created_at"`
}
