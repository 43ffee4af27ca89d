package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// splitCSV 逗号分隔参数转切片，空串返回 nil
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseDate 支持 RFC3339 与日期两种格式
func parseDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return &ts, true
	}
	return nil, false
}

// List 用户动态流
// GET /api/v1/users/:id/activity?mode=you&types=...&groups=...&from=...&to=...
func (h *ActivityHandler) List(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	from, ok := parseDate(c.Query("from"))
	if !ok {
		response.ParamError(c, "无效的起始时间")
		return
	}
	to, ok := parseDate(c.Query("to"))
	if !ok {
		response.ParamError(c, "无效的截止时间")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	query := &dto.ActivityQuery{
		Types:    splitCSV(c.Query("types")),
		Groups:   splitCSV(c.Query("groups")),
		From:     from,
		To:       to,
		Mode:     c.DefaultQuery("mode", dto.ActivityModeYou),
		Page:     page,
		PageSize: pageSize,
	}

	viewerID := middleware.GetOptionalUserID(c)

	items, total, err := h.activityService.List(viewerID, targetID, query)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrInvalidMode:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// GetPrivacy 本人隐私设置
// GET /api/v1/users/me/privacy
func (h *ActivityHandler) GetPrivacy(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	settings, err := h.activityService.GetPrivacy(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, settings)
}

// UpdatePrivacy 更新隐私设置
// PUT /api/v1/users/me/privacy
func (h *ActivityHandler) UpdatePrivacy(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdatePrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	settings, err := h.activityService.UpdatePrivacy(userID, &req)
	if err != nil {
		switch err {
		case service.ErrUnknownActivityGroup:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, settings)
}
