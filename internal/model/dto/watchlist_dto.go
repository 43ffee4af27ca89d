package dto

// AddWatchlistRequest 添加追剧条目
type AddWatchlistRequest struct {
	ShowID int64  `json:"show_id" binding:"required"`
	Status string `json:"status" binding:"omitempty,oneof=watching planned finished"`
}

// UpdateWatchlistRequest 更新追剧状态
type UpdateWatchlistRequest struct {
	Status string `json:"status" binding:"required,oneof=watching planned finished"`
}

// WatchlistEntry 追剧条目
type WatchlistEntry struct {
	ID        int64  `json:"id"`
	ShowID    int64  `json:"show_id"`
	ShowTitle string `json:"show_title"`
	PosterURL string `json:"poster_url"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}
