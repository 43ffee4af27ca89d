package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/oauth"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	githubOAuth *oauth.GithubOAuth
	stateStore  *oauth.StateStore
}

func NewAuthHandler(authService *service.AuthService, githubOAuth *oauth.GithubOAuth, stateStore *oauth.StateStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		githubOAuth: githubOAuth,
		stateStore:  stateStore,
	}
}

// Register 注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch err {
		case service.ErrEmailTaken, service.ErrUsernameTaken:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "注册成功，请查收验证邮件", resp)
}

// Login 登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// VerifyEmail 邮箱验证
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.VerifyEmail(req.Code); err != nil {
		switch err {
		case service.ErrInvalidCode:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "验证成功", nil)
}

// GithubAuth 跳转 GitHub 授权页
// GET /api/v1/auth/github?redirect_uri=...
func (h *AuthHandler) GithubAuth(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")

	state, err := h.stateStore.GenerateState(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"auth_url": h.githubOAuth.GetAuthURL(state),
	})
}

// GithubCallback GitHub 回调
// GET /api/v1/auth/github/callback?code=...&state=...
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "缺少授权码")
		return
	}

	if _, err := h.stateStore.ValidateState(c.Request.Context(), state); err != nil {
		response.AuthError(c, "state 校验失败")
		return
	}

	resp, err := h.authService.LoginWithGithub(c.Request.Context(), code)
	if err != nil {
		response.ServerError(c, "GitHub 登录失败")
		return
	}

	response.Success(c, resp)
}
