package cron

import (
	"log"
	"time"

	"github.com/unscripted/unscripted-server/internal/repository"
)

type Service struct {
	predictionRepo *repository.PredictionRepository
	userRepo       *repository.UserRepository
	stopChan       chan struct{}
}

func NewService(
	predictionRepo *repository.PredictionRepository,
	userRepo *repository.UserRepository,
) *Service {
	return &Service{
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		stopChan:       make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runMarketLock()
	go s.runDailyCleanup()
	log.Println("Cron service started (market lock + daily cleanup)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runMarketLock 每分钟锁定已过截止时间的开放市场，锁定后不再接受下注
func (s *Service) runMarketLock() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.lockExpiredMarkets()
		}
	}
}

func (s *Service) lockExpiredMarkets() {
	locked, err := s.predictionRepo.LockExpired(time.Now())
	if err != nil {
		log.Printf("Failed to lock expired markets: %v", err)
		return
	}
	if locked > 0 {
		log.Printf("Locked %d expired markets", locked)
	}
}

// runDailyCleanup 每日零点清理过期的邮箱验证码
func (s *Service) runDailyCleanup() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.cleanupVerificationCodes()
			timer.Reset(24 * time.Hour)
		}
	}
}

func (s *Service) cleanupVerificationCodes() {
	cleaned, err := s.userRepo.ClearExpiredVerificationCodes(time.Now())
	if err != nil {
		log.Printf("Failed to clear expired verification codes: %v", err)
		return
	}
	if cleaned > 0 {
		log.Printf("Cleared %d expired verification codes", cleaned)
	}
}

// RunNow 立即执行市场锁定（用于测试或手动触发）
func (s *Service) RunNow() {
	s.lockExpiredMarkets()
}
