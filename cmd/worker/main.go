package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unscripted/unscripted-server/config"
	"github.com/unscripted/unscripted-server/internal/database"
	"github.com/unscripted/unscripted-server/internal/pkg/pubsub"
	"github.com/unscripted/unscripted-server/internal/pkg/queue"
	"github.com/unscripted/unscripted-server/internal/repository"
	"github.com/unscripted/unscripted-server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和 Pub/Sub
	settlementQueue := queue.NewQueue(rdb, cfg.Queue.SettlementQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository 和 Service
	userRepo := repository.NewUserRepository(db)
	showRepo := repository.NewShowRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)

	pointsService := service.NewPointsService(db)
	activityService := service.NewActivityService(userRepo, activityRepo, privacyRepo, publisher)
	predictionService := service.NewPredictionService(
		db, predictionRepo, showRepo, activityService, pointsService, settlementQueue, &cfg.Market)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Settlement worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := settlementQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop settlement: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: settling market %d as %s",
						workerID, msg.PredictionID, msg.Outcome)
					if err := predictionService.Settle(msg.PredictionID, msg.Outcome); err != nil {
						log.Printf("Worker %d: settlement of market %d failed: %v",
							workerID, msg.PredictionID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
