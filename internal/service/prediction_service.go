package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/config"
	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/queue"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var (
	ErrEpisodeNotFound    = errors.New("单集不存在")
	ErrPredictionNotFound = errors.New("预测市场不存在")
	ErrMarketNotOpen      = errors.New("市场未开放下注")
	ErrMarketNotLocked    = errors.New("市场未锁定，不能结算")
	ErrStakeOutOfRange    = errors.New("下注金额超出范围")
	ErrInvalidClosesAt    = errors.New("无效的截止时间")
	ErrNotMarketCreator   = errors.New("只有创建者可以发起结算")
)

// PredictionService 预测市场。下注即扣积分入池，
// 结算任务走 Redis 队列由 worker 异步派彩。
type PredictionService struct {
	db             *gorm.DB
	predictionRepo *repository.PredictionRepository
	showRepo       *repository.ShowRepository
	activitySvc    *ActivityService
	pointsSvc      *PointsService
	settlementQ    *queue.Queue
	marketCfg      *config.MarketConfig
}

func NewPredictionService(
	db *gorm.DB,
	predictionRepo *repository.PredictionRepository,
	showRepo *repository.ShowRepository,
	activitySvc *ActivityService,
	pointsSvc *PointsService,
	settlementQ *queue.Queue,
	marketCfg *config.MarketConfig,
) *PredictionService {
	return &PredictionService{
		db:             db,
		predictionRepo: predictionRepo,
		showRepo:       showRepo,
		activitySvc:    activitySvc,
		pointsSvc:      pointsSvc,
		settlementQ:    settlementQ,
		marketCfg:      marketCfg,
	}
}

// Create 开设市场
func (s *PredictionService) Create(userID int64, req *dto.CreatePredictionRequest) (*dto.PredictionItem, error) {
	if _, err := s.showRepo.GetEpisode(req.EpisodeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, err
	}

	closesAt, err := time.Parse(time.RFC3339, req.ClosesAt)
	if err != nil || !closesAt.After(time.Now()) {
		return nil, ErrInvalidClosesAt
	}

	prediction := &model.Prediction{
		CreatorID: userID,
		EpisodeID: req.EpisodeID,
		Question:  req.Question,
		Status:    model.MarketOpen,
		ClosesAt:  closesAt,
	}
	if err := s.predictionRepo.Create(prediction); err != nil {
		return nil, err
	}

	return toPredictionItem(prediction), nil
}

// Get 市场详情
func (s *PredictionService) Get(id int64) (*dto.PredictionItem, error) {
	prediction, err := s.predictionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return toPredictionItem(prediction), nil
}

// List 市场列表
func (s *PredictionService) List(status string, episodeID *int64, page, pageSize int) ([]*dto.PredictionItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	predictions, total, err := s.predictionRepo.List(status, episodeID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PredictionItem, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, toPredictionItem(p))
	}
	return items, total, nil
}

// PlaceBet 下注。扣积分、入池、建仓同事务，
// 份额与投入积分 1:1，余额不足整体回滚。
func (s *PredictionService) PlaceBet(userID, predictionID int64, req *dto.PlaceBetRequest) (*dto.PositionItem, error) {
	if req.Stake < s.marketCfg.MinStake || req.Stake > s.marketCfg.MaxStake {
		return nil, ErrStakeOutOfRange
	}

	prediction, err := s.predictionRepo.GetByID(predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	if prediction.Status != model.MarketOpen || !prediction.ClosesAt.After(time.Now()) {
		return nil, ErrMarketNotOpen
	}

	position := &model.Position{
		UserID:       userID,
		PredictionID: predictionID,
		Side:         req.Side,
		Stake:        req.Stake,
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"prediction_id": predictionID,
		"side":          req.Side,
		"stake":         req.Stake,
	})
	record := &model.ActivityRecord{
		GiverID:     userID,
		RecipientID: prediction.CreatorID,
		Type:        model.ActivityBetPlaced,
		Metadata:    string(metadata),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.pointsSvc.SpendTx(tx, userID, req.Stake, ActionBetPlace); err != nil {
			return err
		}
		if err := s.predictionRepo.AddToPool(tx, predictionID, req.Side, req.Stake); err != nil {
			return err
		}
		if err := s.predictionRepo.CreatePosition(tx, position); err != nil {
			return err
		}
		return s.activitySvc.RecordTx(tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.activitySvc.Notify(record)
	return toPositionItem(position), nil
}

// RequestSettlement 创建者宣布结果，任务入队后由 worker 派彩
func (s *PredictionService) RequestSettlement(userID, predictionID int64, req *dto.SettleRequest) error {
	prediction, err := s.predictionRepo.GetByID(predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPredictionNotFound
		}
		return err
	}
	if prediction.CreatorID != userID {
		return ErrNotMarketCreator
	}
	if prediction.Status != model.MarketLocked {
		return ErrMarketNotLocked
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.settlementQ.Push(ctx, &queue.SettlementMessage{
		PredictionID: predictionID,
		Outcome:      req.Outcome,
		RequestedBy:  userID,
	})
}

// Settle 执行结算。赢家按 stake * totalPool / winningPool 派彩，
// 由 worker 消费队列调用；重复消费因状态检查幂等。
func (s *PredictionService) Settle(predictionID int64, outcome string) error {
	prediction, err := s.predictionRepo.GetByID(predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPredictionNotFound
		}
		return err
	}
	if prediction.Status == model.MarketSettled {
		return nil
	}

	positions, err := s.predictionRepo.ListPositions(predictionID)
	if err != nil {
		return err
	}

	totalPool := prediction.YesPool + prediction.NoPool
	winningPool := prediction.YesPool
	if outcome == model.SideNo {
		winningPool = prediction.NoPool
	}

	var payoutRecords []*model.ActivityRecord

	err = s.db.Transaction(func(tx *gorm.DB) error {
		settled, err := s.predictionRepo.MarkSettled(tx, predictionID, outcome, time.Now())
		if err != nil {
			return err
		}
		if !settled {
			return nil
		}

		for _, position := range positions {
			var payout int64
			if position.Side == outcome && winningPool > 0 {
				payout = position.Stake * totalPool / winningPool
			}
			if err := s.predictionRepo.SetPositionPayout(tx, position.ID, payout); err != nil {
				return err
			}
			if payout == 0 {
				continue
			}

			if err := s.pointsSvc.AddTx(tx, position.UserID, payout, ActionBetPayout); err != nil {
				return err
			}

			metadata, _ := json.Marshal(map[string]interface{}{
				"prediction_id": predictionID,
				"payout":        payout,
			})
			payoutRecords = append(payoutRecords, &model.ActivityRecord{
				GiverID:     prediction.CreatorID,
				RecipientID: position.UserID,
				Type:        model.ActivityMarketPayout,
				Metadata:    string(metadata),
			})
		}

		settleMeta, _ := json.Marshal(map[string]interface{}{
			"prediction_id": predictionID,
			"outcome":       outcome,
		})
		payoutRecords = append(payoutRecords, &model.ActivityRecord{
			GiverID:     prediction.CreatorID,
			RecipientID: prediction.CreatorID,
			Type:        model.ActivityMarketSettled,
			Metadata:    string(settleMeta),
		})

		for _, record := range payoutRecords {
			if err := s.activitySvc.RecordTx(tx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, record := range payoutRecords {
		s.activitySvc.Notify(record)
	}
	return nil
}

// UserPositions 用户持仓列表
func (s *PredictionService) UserPositions(userID int64, page, pageSize int) ([]*dto.PositionItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	positions, total, err := s.predictionRepo.ListUserPositions(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PositionItem, 0, len(positions))
	for _, position := range positions {
		items = append(items, toPositionItem(position))
	}
	return items, total, nil
}

func toPredictionItem(p *model.Prediction) *dto.PredictionItem {
	item := &dto.PredictionItem{
		ID:        p.ID,
		EpisodeID: p.EpisodeID,
		Question:  p.Question,
		Status:    p.Status,
		Outcome:   p.Outcome,
		YesPool:   p.YesPool,
		NoPool:    p.NoPool,
		ClosesAt:  p.ClosesAt.Format(time.RFC3339),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if total := p.YesPool + p.NoPool; total > 0 {
		item.YesPrice = float64(p.YesPool) / float64(total)
	}
	return item
}

func toPositionItem(p *model.Position) *dto.PositionItem {
	return &dto.PositionItem{
		ID:           p.ID,
		PredictionID: p.PredictionID,
		Side:         p.Side,
		Stake:        p.Stake,
		Payout:       p.Payout,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
