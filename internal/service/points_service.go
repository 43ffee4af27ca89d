package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

// 积分动作常量
const (
	ActionCommentUpvoted = "评论获赞"
	ActionCommentDowned  = "评论被踩"
	ActionVoteReversed   = "改票回冲"
	ActionReviewCreate   = "发布评测"
	ActionBetPlace       = "预测下注"
	ActionBetPayout      = "预测派彩"
	ActionSignupBonus    = "注册奖励"
)

// 积分值常量
const (
	PointsCommentUpvoted = 2
	PointsCommentDowned  = -1
	PointsReviewCreate   = 3
	PointsSignupBonus    = 100
)

// 每日限制
const (
	DailyReviewPointLimit = 2 // 每天前 2 篇评测有积分
)

var ErrInsufficientPoints = errors.New("积分不足")

// PointsService 积分台账。余额变动必须和明细同事务落库，
// 余额始终等于明细之和，可离线重算校验。
type PointsService struct {
	db *gorm.DB
}

func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{db: db}
}

// Add 添加积分并记录明细
func (s *PointsService) Add(userID int64, amount int64, action string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.AddTx(tx, userID, amount, action)
	})
}

// AddTx 在给定事务中添加积分并记录明细
func (s *PointsService) AddTx(tx *gorm.DB, userID int64, amount int64, action string) error {
	log := model.PointLog{
		UserID: userID,
		Amount: amount,
		Action: action,
	}
	if err := tx.Create(&log).Error; err != nil {
		return err
	}

	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", amount)).
		Error
}

// SpendTx 在给定事务中扣除积分，余额不足时整个事务回滚。
// 扣减条件写进 WHERE，并发下注不会把余额扣成负数。
func (s *PointsService) SpendTx(tx *gorm.DB, userID int64, amount int64, action string) error {
	result := tx.Model(&model.User{}).
		Where("id = ? AND points >= ?", userID, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientPoints
	}

	log := model.PointLog{
		UserID: userID,
		Amount: -amount,
		Action: action,
	}
	return tx.Create(&log).Error
}

// Balance 查询用户当前余额
func (s *PointsService) Balance(userID int64) (int64, error) {
	var user model.User
	err := s.db.Select("points").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}

// History 分页查询积分明细
func (s *PointsService) History(userID int64, page, pageSize int) ([]*model.PointLog, int64, error) {
	q := s.db.Model(&model.PointLog{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*model.PointLog
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	return logs, total, err
}

// RecomputeBalance 按明细重算余额，供离线校验工具使用
func (s *PointsService) RecomputeBalance(userID int64) (int64, error) {
	var sum *int64
	err := s.db.Model(&model.PointLog{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// getTodayRange 获取今日的开始和结束时间
func getTodayRange() (time.Time, time.Time) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return startOfDay, startOfDay.Add(24 * time.Hour)
}

// countTodayPointLogs 统计今日指定动作的积分记录数
func (s *PointsService) countTodayPointLogs(userID int64, action string) (int64, error) {
	startOfDay, endOfDay := getTodayRange()
	var count int64
	err := s.db.Model(&model.PointLog{}).
		Where("user_id = ? AND action = ? AND created_at >= ? AND created_at < ?",
			userID, action, startOfDay, endOfDay).
		Count(&count).Error
	return count, err
}

// CanEarnReviewPoints 检查用户今日是否还能通过评测获取积分
func (s *PointsService) CanEarnReviewPoints(userID int64) bool {
	count, err := s.countTodayPointLogs(userID, ActionReviewCreate)
	if err != nil {
		return false
	}
	return count < DailyReviewPointLimit
}
