package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type DiscussionHandler struct {
	discussionService *service.DiscussionService
}

func NewDiscussionHandler(discussionService *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{discussionService: discussionService}
}

// Create 创建讨论帖
// POST /api/v1/discussions
func (h *DiscussionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.discussionService.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrDiscussionTargetMissing:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.SuccessWithMessage(c, "发布成功", item)
}

// Get 讨论详情
// GET /api/v1/discussions/:id
func (h *DiscussionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的讨论ID")
		return
	}

	item, err := h.discussionService.Get(id)
	if err != nil {
		switch err {
		case service.ErrDiscussionNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, item)
}

// List 讨论列表
// GET /api/v1/discussions?show_id=...&episode_id=...
func (h *DiscussionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var showID, episodeID *int64
	if raw := c.Query("show_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			showID = &id
		}
	}
	if raw := c.Query("episode_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			episodeID = &id
		}
	}

	items, total, err := h.discussionService.List(showID, episodeID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, items)
}

// Delete 删除讨论帖
// DELETE /api/v1/discussions/:id
func (h *DiscussionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的讨论ID")
		return
	}

	if err := h.discussionService.Delete(userID, id); err != nil {
		switch err {
		case service.ErrDiscussionNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotDiscussionAuthor:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, nil)
}
