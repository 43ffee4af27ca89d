package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type PredictionHandler struct {
	predictionService *service.PredictionService
}

func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// Create 开设预测市场
// POST /api/v1/predictions
func (h *PredictionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.predictionService.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrEpisodeNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrInvalidClosesAt:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.SuccessWithMessage(c, "市场已开设", item)
}

// Get 市场详情
// GET /api/v1/predictions/:id
func (h *PredictionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的市场ID")
		return
	}

	item, err := h.predictionService.Get(id)
	if err != nil {
		switch err {
		case service.ErrPredictionNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, item)
}

// List 市场列表
// GET /api/v1/predictions?status=open&episode_id=...
func (h *PredictionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var episodeID *int64
	if raw := c.Query("episode_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			episodeID = &id
		}
	}

	items, total, err := h.predictionService.List(c.Query("status"), episodeID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, items)
}

// Bet 下注
// POST /api/v1/predictions/:id/bets
func (h *PredictionHandler) Bet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的市场ID")
		return
	}

	var req dto.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	position, err := h.predictionService.PlaceBet(userID, id, &req)
	if err != nil {
		switch err {
		case service.ErrPredictionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrMarketNotOpen, service.ErrStakeOutOfRange:
			response.ParamError(c, err.Error())
		case service.ErrInsufficientPoints:
			response.PointsError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.SuccessWithMessage(c, "下注成功", position)
}

// Settle 发起结算
// POST /api/v1/predictions/:id/settle
func (h *PredictionHandler) Settle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的市场ID")
		return
	}

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.predictionService.RequestSettlement(userID, id, &req); err != nil {
		switch err {
		case service.ErrPredictionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotMarketCreator:
			response.PermissionError(c, err.Error())
		case service.ErrMarketNotLocked:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.SuccessWithMessage(c, "结算任务已提交", nil)
}

// MyPositions 本人持仓
// GET /api/v1/users/me/positions
func (h *PredictionHandler) MyPositions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.predictionService.UserPositions(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, items)
}
