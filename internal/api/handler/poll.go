package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type PollHandler struct {
	pollService *service.PollService
}

func NewPollHandler(pollService *service.PollService) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// Create 创建投票
// POST /api/v1/polls
func (h *PollHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.pollService.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrShowNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.SuccessWithMessage(c, "投票已创建", result)
}

// Vote 投票或改选
// POST /api/v1/polls/:id/votes
func (h *PollHandler) Vote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的投票ID")
		return
	}

	var req dto.VotePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.pollService.Vote(userID, pollID, &req)
	if err != nil {
		switch err {
		case service.ErrPollNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrOptionNotFound:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, result)
}

// Result 实时计票结果
// GET /api/v1/polls/:id
func (h *PollHandler) Result(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的投票ID")
		return
	}

	viewerID := middleware.GetOptionalUserID(c)
	result, err := h.pollService.Result(pollID, viewerID)
	if err != nil {
		switch err {
		case service.ErrPollNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, result)
}

// ListByShow 节目下的投票
// GET /api/v1/shows/:id/polls
func (h *PollHandler) ListByShow(c *gin.Context) {
	showID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的节目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	viewerID := middleware.GetOptionalUserID(c)
	results, total, err := h.pollService.ListByShow(showID, viewerID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, results)
}
