package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type ShowHandler struct {
	showService *service.ShowService
}

func NewShowHandler(showService *service.ShowService) *ShowHandler {
	return &ShowHandler{showService: showService}
}

// List 节目列表
// GET /api/v1/shows?genre=...&q=...
func (h *ShowHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	shows, total, err := h.showService.List(c.Query("genre"), c.Query("q"), page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, shows)
}

// Get 节目详情
// GET /api/v1/shows/:id
func (h *ShowHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的节目ID")
		return
	}

	show, err := h.showService.Get(id)
	if err != nil {
		switch err {
		case service.ErrShowNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, show)
}

// Seasons 节目下的季
// GET /api/v1/shows/:id/seasons
func (h *ShowHandler) Seasons(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的节目ID")
		return
	}

	seasons, err := h.showService.Seasons(id)
	if err != nil {
		switch err {
		case service.ErrShowNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, seasons)
}

// Episodes 季下的集
// GET /api/v1/seasons/:id/episodes
func (h *ShowHandler) Episodes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的季ID")
		return
	}

	episodes, err := h.showService.Episodes(id)
	if err != nil {
		switch err {
		case service.ErrShowNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, episodes)
}
