package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// queryTarget 从查询参数解析评测目标
func queryTarget(c *gin.Context) (showID, seasonID, episodeID *int64) {
	parse := func(key string) *int64 {
		raw := c.Query(key)
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return &id
	}
	return parse("show_id"), parse("season_id"), parse("episode_id")
}

// Create 发表评测
// POST /api/v1/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.reviewService.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrReviewTargetInvalid:
			response.ParamError(c, err.Error())
		case service.ErrReviewTargetMissing:
			response.NotFoundError(c, err.Error())
		case service.ErrReviewExists:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评测已发布", item)
}

// List 目标下的评测列表
// GET /api/v1/reviews?show_id=... | season_id=... | episode_id=...
func (h *ReviewHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	showID, seasonID, episodeID := queryTarget(c)

	items, total, avg, err := h.reviewService.ListByTarget(showID, seasonID, episodeID, page, pageSize)
	if err != nil {
		switch err {
		case service.ErrReviewTargetInvalid:
			response.ParamError(c, err.Error())
		case service.ErrReviewTargetMissing:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, gin.H{
		"average_rating": avg,
		"reviews": response.PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Update 修改评测
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评测ID")
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.reviewService.Update(userID, reviewID, &req)
	if err != nil {
		switch err {
		case service.ErrReviewNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotReviewAuthor:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, item)
}

// Delete 删除评测
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评测ID")
		return
	}

	if err := h.reviewService.Delete(userID, reviewID); err != nil {
		switch err {
		case service.ErrReviewNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotReviewAuthor:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, nil)
}
