package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/config"
	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/email"
	"github.com/unscripted/unscripted-server/internal/pkg/jwt"
	"github.com/unscripted/unscripted-server/internal/pkg/oauth"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("邮箱已注册")
	ErrUsernameTaken      = errors.New("用户名已使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidCode        = errors.New("验证码无效或已过期")
)

const verificationTTL = 24 * time.Hour

// AuthService 注册、登录与 GitHub OAuth
type AuthService struct {
	userRepo    *repository.UserRepository
	pointsSvc   *PointsService
	emailSvc    *email.Service
	githubOAuth *oauth.GithubOAuth
	jwtCfg      *config.JWTConfig
}

func NewAuthService(
	userRepo *repository.UserRepository,
	pointsSvc *PointsService,
	emailSvc *email.Service,
	githubOAuth *oauth.GithubOAuth,
	jwtCfg *config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		pointsSvc:   pointsSvc,
		emailSvc:    emailSvc,
		githubOAuth: githubOAuth,
		jwtCfg:      jwtCfg,
	}
}

// Register 注册并发送验证邮件
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	taken, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := randomCode()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(verificationTTL)

	passwordHash := string(hash)
	user := &model.User{
		Username:              req.Username,
		Email:                 &req.Email,
		PasswordHash:          &passwordHash,
		ActivityPublic:        true,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.emailSvc != nil {
		// 邮件失败不阻塞注册，验证码可重发
		_ = s.emailSvc.SendVerificationCode(req.Email, code)
	}

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// VerifyEmail 邮箱验证，首次验证发放注册奖励积分
func (s *AuthService) VerifyEmail(code string) error {
	user, err := s.userRepo.GetByVerificationCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if user.VerificationExpiresAt == nil || user.VerificationExpiresAt.Before(time.Now()) {
		return ErrInvalidCode
	}

	alreadyVerified := user.EmailVerified
	user.EmailVerified = true
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if !alreadyVerified && s.pointsSvc != nil {
		_ = s.pointsSvc.Add(user.ID, PointsSignupBonus, ActionSignupBonus)
	}

	if s.emailSvc != nil && user.Email != nil {
		_ = s.emailSvc.SendWelcome(*user.Email, user.Username)
	}
	return nil
}

// LoginWithGithub 用授权码完成 GitHub 登录，首次登录自动建号
func (s *AuthService) LoginWithGithub(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.githubOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	ghUser, err := s.githubOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	githubID := strconv.FormatInt(ghUser.ID, 10)

	user, err := s.userRepo.GetByGithubID(githubID)
	if err == nil {
		return s.issueToken(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 已有同邮箱账号则绑定，否则新建
	if ghUser.Email != "" {
		existing, err := s.userRepo.GetByEmail(ghUser.Email)
		if err == nil {
			existing.GithubID = &githubID
			if err := s.userRepo.Update(existing); err != nil {
				return nil, err
			}
			return s.issueToken(existing)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user = &model.User{
		Username:       s.uniqueUsername(ghUser.Login),
		GithubID:       &githubID,
		AvatarURL:      ghUser.AvatarURL,
		ActivityPublic: true,
		EmailVerified:  ghUser.Email != "",
	}
	if ghUser.Email != "" {
		user.Email = &ghUser.Email
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.pointsSvc != nil {
		_ = s.pointsSvc.Add(user.ID, PointsSignupBonus, ActionSignupBonus)
	}
	return s.issueToken(user)
}

// uniqueUsername 用户名冲突时追加随机后缀
func (s *AuthService) uniqueUsername(base string) string {
	if base == "" {
		base = "viewer"
	}

	name := base
	for i := 0; i < 5; i++ {
		taken, err := s.userRepo.ExistsByUsername(name)
		if err != nil || !taken {
			return name
		}
		suffix := make([]byte, 3)
		_, _ = rand.Read(suffix)
		name = fmt.Sprintf("%s_%s", base, hex.EncodeToString(suffix))
	}
	return name
}

func (s *AuthService) issueToken(user *model.User) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.jwtCfg.Secret, s.jwtCfg.ExpireHours)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  toUserInfo(user),
	}, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Username:      user.Username,
		AvatarURL:     user.AvatarURL,
		Bio:           user.Bio,
		Points:        user.Points,
		EmailVerified: user.EmailVerified,
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}

func randomCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
