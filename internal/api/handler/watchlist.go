package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// Add 加入片单
// POST /api/v1/users/me/watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	entry, err := h.watchlistService.Add(userID, &req)
	if err != nil {
		switch err {
		case service.ErrShowNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, entry)
}

// UpdateStatus 更新追剧状态
// PUT /api/v1/users/me/watchlist/:show_id
func (h *WatchlistHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	showID, err := strconv.ParseInt(c.Param("show_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的节目ID")
		return
	}

	var req dto.UpdateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	entry, err := h.watchlistService.UpdateStatus(userID, showID, &req)
	if err != nil {
		switch err {
		case service.ErrWatchlistNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, entry)
}

// Remove 移出片单
// DELETE /api/v1/users/me/watchlist/:show_id
func (h *WatchlistHandler) Remove(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	showID, err := strconv.ParseInt(c.Param("show_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的节目ID")
		return
	}

	if err := h.watchlistService.Remove(userID, showID); err != nil {
		switch err {
		case service.ErrWatchlistNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, nil)
}

// List 本人片单
// GET /api/v1/users/me/watchlist?status=watching
func (h *WatchlistHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	entries, total, err := h.watchlistService.List(userID, c.Query("status"), page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, entries)
}
