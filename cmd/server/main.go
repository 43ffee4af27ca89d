package main

import (
	"context"
	"fmt"
	"log"

	"github.com/unscripted/unscripted-server/config"
	"github.com/unscripted/unscripted-server/internal/api"
	"github.com/unscripted/unscripted-server/internal/api/handler"
	"github.com/unscripted/unscripted-server/internal/database"
	"github.com/unscripted/unscripted-server/internal/pkg/cron"
	"github.com/unscripted/unscripted-server/internal/pkg/email"
	"github.com/unscripted/unscripted-server/internal/pkg/oauth"
	"github.com/unscripted/unscripted-server/internal/pkg/oss"
	"github.com/unscripted/unscripted-server/internal/pkg/pubsub"
	"github.com/unscripted/unscripted-server/internal/pkg/queue"
	"github.com/unscripted/unscripted-server/internal/pkg/ws"
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

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	settlementQueue := queue.NewQueue(rdb, cfg.Queue.SettlementQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub，订阅动态事件后推给在线接收者
	wsHub := ws.NewHub()
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.ActivityEvent) {
			msgType := ws.TypeActivity
			if event.Type == pubsub.EventPayout {
				msgType = ws.TypeMarketPayout
			}
			_ = wsHub.SendToUser(event.RecipientID, &ws.Message{
				Type: msgType,
				Data: event,
			})
		})
		if err != nil && err != context.Canceled {
			log.Printf("Activity subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	showRepo := repository.NewShowRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	pollRepo := repository.NewPollRepository(db)
	followRepo := repository.NewFollowRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)

	// 初始化基础服务
	emailService := email.NewService(&cfg.Email)
	githubOAuth := oauth.NewGithubOAuth(
		cfg.OAuth.Github.ClientID,
		cfg.OAuth.Github.ClientSecret,
		cfg.OAuth.Github.RedirectURI,
	)
	stateStore := oauth.NewStateStore(rdb)

	// 初始化 Service
	pointsService := service.NewPointsService(db)
	activityService := service.NewActivityService(userRepo, activityRepo, privacyRepo, publisher)
	authService := service.NewAuthService(userRepo, pointsService, emailService, githubOAuth, &cfg.JWT)
	userService := service.NewUserService(userRepo, ossClient)
	showService := service.NewShowService(showRepo)
	reviewService := service.NewReviewService(reviewRepo, showRepo, activityService, pointsService)
	discussionService := service.NewDiscussionService(discussionRepo, showRepo, activityService)
	commentService := service.NewCommentService(
		db, commentRepo, voteRepo, discussionRepo, predictionRepo, activityService, pointsService)
	voteService := service.NewVoteService(commentRepo, voteRepo, activityService, pointsService)
	predictionService := service.NewPredictionService(
		db, predictionRepo, showRepo, activityService, pointsService, settlementQueue, &cfg.Market)
	pollService := service.NewPollService(pollRepo, showRepo, activityService)
	followService := service.NewFollowService(followRepo, userRepo, activityService)
	watchlistService := service.NewWatchlistService(watchlistRepo, showRepo, activityService)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, githubOAuth, stateStore)
	userHandler := handler.NewUserHandler(userService, pointsService, followService)
	showHandler := handler.NewShowHandler(showService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	discussionHandler := handler.NewDiscussionHandler(discussionService)
	commentHandler := handler.NewCommentHandler(commentService, voteService)
	predictionHandler := handler.NewPredictionHandler(predictionService)
	pollHandler := handler.NewPollHandler(pollService)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService)
	activityHandler := handler.NewActivityHandler(activityService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 定时任务：锁定到期市场、清理过期验证码
	cronService := cron.NewService(predictionRepo, userRepo)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		showHandler,
		reviewHandler,
		discussionHandler,
		commentHandler,
		predictionHandler,
		pollHandler,
		watchlistHandler,
		activityHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
