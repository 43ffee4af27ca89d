package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type PredictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create 创建预测市场
func (r *PredictionRepository) Create(prediction *model.Prediction) error {
	return r.db.Create(prediction).Error
}

// GetByID 根据 ID 获取市场
func (r *PredictionRepository) GetByID(id int64) (*model.Prediction, error) {
	var prediction model.Prediction
	err := r.db.Preload("Creator").Where("id = ?", id).First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// List 分页查询市场，status 与 episodeID 为可选过滤
func (r *PredictionRepository) List(status string, episodeID *int64, page, pageSize int) ([]*model.Prediction, int64, error) {
	q := r.db.Model(&model.Prediction{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if episodeID != nil {
		q = q.Where("episode_id = ?", *episodeID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var predictions []*model.Prediction
	err := q.Preload("Creator").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&predictions).Error
	return predictions, total, err
}

// AddToPool 在事务中累加对应方向的资金池
func (r *PredictionRepository) AddToPool(tx *gorm.DB, predictionID int64, side string, amount int64) error {
	column := "yes_pool"
	if side == model.SideNo {
		column = "no_pool"
	}
	return tx.Model(&model.Prediction{}).
		Where("id = ?", predictionID).
		Update(column, gorm.Expr(column+" + ?", amount)).Error
}

// MarkLocked 仅当市场仍为 open 时置为 locked
func (r *PredictionRepository) MarkLocked(id int64) error {
	return r.db.Model(&model.Prediction{}).
		Where("id = ? AND status = ?", id, model.MarketOpen).
		Update("status", model.MarketLocked).Error
}

// MarkSettled 在事务中写入结算结果，仅当尚未结算时生效
func (r *PredictionRepository) MarkSettled(tx *gorm.DB, id int64, outcome string, settledAt time.Time) (bool, error) {
	result := tx.Model(&model.Prediction{}).
		Where("id = ? AND status <> ?", id, model.MarketSettled).
		Updates(map[string]interface{}{
			"status":     model.MarketSettled,
			"outcome":    outcome,
			"settled_at": settledAt,
		})
	return result.RowsAffected > 0, result.Error
}

// LockExpired 批量锁定已过截止时间仍开放的市场，返回锁定条数
func (r *PredictionRepository) LockExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Prediction{}).
		Where("status = ? AND closes_at <= ?", model.MarketOpen, now).
		Update("status", model.MarketLocked)
	return result.RowsAffected, result.Error
}

// CreatePosition 在事务中写入一笔下注
func (r *PredictionRepository) CreatePosition(tx *gorm.DB, position *model.Position) error {
	return tx.Create(position).Error
}

// ListPositions 获取市场全部持仓
func (r *PredictionRepository) ListPositions(predictionID int64) ([]*model.Position, error) {
	var positions []*model.Position
	err := r.db.Where("prediction_id = ?", predictionID).Find(&positions).Error
	return positions, err
}

// ListUserPositions 分页获取用户持仓
func (r *PredictionRepository) ListUserPositions(userID int64, page, pageSize int) ([]*model.Position, int64, error) {
	q := r.db.Model(&model.Position{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var positions []*model.Position
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&positions).Error
	return positions, total, err
}

// SetPositionPayout 在事务中写入单笔持仓的派彩金额
func (r *PredictionRepository) SetPositionPayout(tx *gorm.DB, positionID int64, payout int64) error {
	return tx.Model(&model.Position{}).
		Where("id = ?", positionID).
		Update("payout", payout).Error
}
