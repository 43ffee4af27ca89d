package api

import (
	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/config"
	"github.com/unscripted/unscripted-server/internal/api/handler"
	"github.com/unscripted/unscripted-server/internal/api/middleware"
)

type Router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	showHandler       *handler.ShowHandler
	reviewHandler     *handler.ReviewHandler
	discussionHandler *handler.DiscussionHandler
	commentHandler    *handler.CommentHandler
	predictionHandler *handler.PredictionHandler
	pollHandler       *handler.PollHandler
	watchlistHandler  *handler.WatchlistHandler
	activityHandler   *handler.ActivityHandler
	websocketHandler  *handler.WebSocketHandler
	cfg               *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	showHandler *handler.ShowHandler,
	reviewHandler *handler.ReviewHandler,
	discussionHandler *handler.DiscussionHandler,
	commentHandler *handler.CommentHandler,
	predictionHandler *handler.PredictionHandler,
	pollHandler *handler.PollHandler,
	watchlistHandler *handler.WatchlistHandler,
	activityHandler *handler.ActivityHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:       authHandler,
		userHandler:       userHandler,
		showHandler:       showHandler,
		reviewHandler:     reviewHandler,
		discussionHandler: discussionHandler,
		commentHandler:    commentHandler,
		predictionHandler: predictionHandler,
		pollHandler:       pollHandler,
		watchlistHandler:  watchlistHandler,
		activityHandler:   activityHandler,
		websocketHandler:  websocketHandler,
		cfg:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开读取（可选认证，登录后附带个人状态）
		public := api.Group("")
		public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			// 节目目录
			public.GET("/shows", r.showHandler.List)
			public.GET("/shows/:id", r.showHandler.Get)
			public.GET("/shows/:id/seasons", r.showHandler.Seasons)
			public.GET("/shows/:id/polls", r.pollHandler.ListByShow)
			public.GET("/seasons/:id/episodes", r.showHandler.Episodes)

			// 评测
			public.GET("/reviews", r.reviewHandler.List)

			// 讨论区
			public.GET("/discussions", r.discussionHandler.List)
			public.GET("/discussions/:id", r.discussionHandler.Get)
			public.GET("/discussions/:id/comments", r.commentHandler.ListForDiscussion)
			public.GET("/discussions/:id/comments/stats", r.commentHandler.StatsForDiscussion)

			// 预测市场
			public.GET("/predictions", r.predictionHandler.List)
			public.GET("/predictions/:id", r.predictionHandler.Get)
			public.GET("/predictions/:id/comments", r.commentHandler.ListForPrediction)
			public.GET("/predictions/:id/comments/stats", r.commentHandler.StatsForPrediction)

			// 投票
			public.GET("/polls/:id", r.pollHandler.Result)

			// 用户公开资料与动态
			public.GET("/users/:id", r.userHandler.Profile)
			public.GET("/users/:id/activity", r.activityHandler.List)
			public.GET("/users/:id/followers", r.userHandler.Followers)
			public.GET("/users/:id/following", r.userHandler.Following)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 本人
			me := authenticated.Group("/users/me")
			{
				me.GET("", r.userHandler.Me)
				me.PUT("", r.userHandler.UpdateProfile)
				me.POST("/avatar", r.userHandler.UploadAvatar)
				me.GET("/points", r.userHandler.Points)
				me.GET("/positions", r.predictionHandler.MyPositions)
				me.GET("/privacy", r.activityHandler.GetPrivacy)
				me.PUT("/privacy", r.activityHandler.UpdatePrivacy)
				me.GET("/watchlist", r.watchlistHandler.List)
				me.POST("/watchlist", r.watchlistHandler.Add)
				me.PUT("/watchlist/:show_id", r.watchlistHandler.UpdateStatus)
				me.DELETE("/watchlist/:show_id", r.watchlistHandler.Remove)
			}

			// 关注
			authenticated.POST("/users/:id/follow", r.userHandler.Follow)
			authenticated.DELETE("/users/:id/follow", r.userHandler.Unfollow)

			// 评测
			authenticated.POST("/reviews", r.reviewHandler.Create)
			authenticated.PUT("/reviews/:id", r.reviewHandler.Update)
			authenticated.DELETE("/reviews/:id", r.reviewHandler.Delete)

			// 讨论区
			authenticated.POST("/discussions", r.discussionHandler.Create)
			authenticated.DELETE("/discussions/:id", r.discussionHandler.Delete)

			// 评论
			authenticated.POST("/discussions/:id/comments", r.commentHandler.CreateForDiscussion)
			authenticated.POST("/predictions/:id/comments", r.commentHandler.CreateForPrediction)
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)
			authenticated.POST("/comments/:id/vote", r.commentHandler.Vote)

			// 预测市场
			authenticated.POST("/predictions", r.predictionHandler.Create)
			authenticated.POST("/predictions/:id/bets", r.predictionHandler.Bet)
			authenticated.POST("/predictions/:id/settle", r.predictionHandler.Settle)

			// 投票
			authenticated.POST("/polls", r.pollHandler.Create)
			authenticated.POST("/polls/:id/votes", r.pollHandler.Vote)
		}
	}

	return engine
}
