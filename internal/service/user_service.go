package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/oss"
	"github.com/unscripted/unscripted-server/internal/repository"
)

// UserService 用户资料
type UserService struct {
	userRepo  *repository.UserRepository
	ossClient *oss.Client
}

func NewUserService(userRepo *repository.UserRepository, ossClient *oss.Client) *UserService {
	return &UserService{
		userRepo:  userRepo,
		ossClient: ossClient,
	}
}

// Profile 获取用户公开资料，本人可见邮箱
func (s *UserService) Profile(viewerID *int64, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := toUserInfo(user)
	if viewerID == nil || *viewerID != userID {
		info.Email = ""
	}
	return info, nil
}

// UpdateProfile 更新资料
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// UploadAvatar 上传头像到 OSS 并更新资料
func (s *UserService) UploadAvatar(userID int64, data []byte, ext string) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	url, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", err
	}

	user.AvatarURL = url
	if err := s.userRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
