package handler

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

const maxAvatarSize = 2 << 20 // 2MB

type UserHandler struct {
	userService   *service.UserService
	pointsService *service.PointsService
	followService *service.FollowService
}

func NewUserHandler(
	userService *service.UserService,
	pointsService *service.PointsService,
	followService *service.FollowService,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		pointsService: pointsService,
		followService: followService,
	}
}

// Me 本人资料
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.userService.Profile(&userID, userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, info)
}

// Profile 用户公开资料
// GET /api/v1/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	viewerID := middleware.GetOptionalUserID(c)
	info, err := h.userService.Profile(viewerID, targetID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	following, followers, err := h.followService.Counts(targetID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"user":      info,
		"following": following,
		"followers": followers,
	})
}

// UpdateProfile 更新资料
// PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch err {
		case service.ErrUsernameTaken:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, info)
}

// UploadAvatar 上传头像
// POST /api/v1/users/me/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.ParamError(c, "请选择头像文件")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		response.ParamError(c, "头像不能超过 2MB")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	url, err := h.userService.UploadAvatar(userID, data, filepath.Ext(header.Filename))
	if err != nil {
		response.ServerError(c, "头像上传失败")
		return
	}

	response.Success(c, gin.H{"avatar_url": url})
}

// Points 积分余额与明细
// GET /api/v1/users/me/points
func (h *UserHandler) Points(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	balance, err := h.pointsService.Balance(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	logs, total, err := h.pointsService.History(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"balance": balance,
		"history": response.PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    logs,
		},
	})
}

// Follow 关注用户
// POST /api/v1/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	if err := h.followService.Follow(userID, targetID); err != nil {
		switch err {
		case service.ErrSelfFollow:
			response.ParamError(c, err.Error())
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrAlreadyFollow:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注
// DELETE /api/v1/users/:id/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	if err := h.followService.Unfollow(userID, targetID); err != nil {
		switch err {
		case service.ErrNotFollowing:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, nil)
}

// Followers 粉丝列表
// GET /api/v1/users/:id/followers
func (h *UserHandler) Followers(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.followService.Followers(targetID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, users)
}

// Following 关注列表
// GET /api/v1/users/:id/following
func (h *UserHandler) Following(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.followService.Following(targetID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, page, pageSize, users)
}
