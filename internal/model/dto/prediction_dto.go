package dto

// CreatePredictionRequest 开设预测市场
type CreatePredictionRequest struct {
	EpisodeID int64  `json:"episode_id" binding:"required"`
	Question  string `json:"question" binding:"required,min=5,max=300"`
	ClosesAt  string `json:"closes_at" binding:"required"` // RFC3339
}

// PlaceBetRequest 下注
type PlaceBetRequest struct {
	Side  string `json:"side" binding:"required,oneof=YES NO"`
	Stake int64  `json:"stake" binding:"required,min=1"`
}

// SettleRequest 结算
type SettleRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=YES NO"`
}

// PredictionItem 市场详情
type PredictionItem struct {
	ID        int64   `json:"id"`
	EpisodeID int64   `json:"episode_id"`
	Question  string  `json:"question"`
	Status    string  `json:"status"`
	Outcome   *string `json:"outcome,omitempty"`
	YesPool   int64   `json:"yes_pool"`
	NoPool    int64   `json:"no_pool"`
	YesPrice  float64 `json:"yes_price"` // yes_pool / (yes_pool + no_pool)
	ClosesAt  string  `json:"closes_at"`
	CreatedAt string  `json:"created_at"`
}

// PositionItem 用户持仓
type PositionItem struct {
	ID           int64  `json:"id"`
	PredictionID int64  `json:"prediction_id"`
	Side         string `json:"side"`
	Stake        int64  `json:"stake"`
	Payout       *int64 `json:"payout,omitempty"`
	CreatedAt    string `json:"created_at"`
}
