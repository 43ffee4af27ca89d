package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var (
	ErrSelfFollow    = errors.New("不能关注自己")
	ErrAlreadyFollow = errors.New("已关注该用户")
	ErrNotFollowing  = errors.New("未关注该用户")
)

type FollowService struct {
	followRepo  *repository.FollowRepository
	userRepo    *repository.UserRepository
	activitySvc *ActivityService
}

func NewFollowService(
	followRepo *repository.FollowRepository,
	userRepo *repository.UserRepository,
	activitySvc *ActivityService,
) *FollowService {
	return &FollowService{
		followRepo:  followRepo,
		userRepo:    userRepo,
		activitySvc: activitySvc,
	}
}

// Follow 关注用户
func (s *FollowService) Follow(followerID, followeeID int64) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	if _, err := s.userRepo.GetByID(followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	exists, err := s.followRepo.Exists(followerID, followeeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollow
	}

	err = s.followRepo.Create(&model.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	})
	if err != nil {
		return err
	}

	_ = s.activitySvc.Record(&model.ActivityRecord{
		GiverID:     followerID,
		RecipientID: followeeID,
		Type:        model.ActivityUserFollowed,
	})
	return nil
}

// Unfollow 取消关注
func (s *FollowService) Unfollow(followerID, followeeID int64) error {
	exists, err := s.followRepo.Exists(followerID, followeeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFollowing
	}
	return s.followRepo.Delete(followerID, followeeID)
}

// listUsers 根据 ID 列表拼装用户信息
func (s *FollowService) listUsers(ids []int64) ([]*dto.CommentUser, error) {
	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	items := make([]*dto.CommentUser, 0, len(ids))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			items = append(items, &dto.CommentUser{
				ID:        user.ID,
				Username:  user.Username,
				AvatarURL: user.AvatarURL,
			})
		}
	}
	return items, nil
}

// Followers 粉丝列表
func (s *FollowService) Followers(userID int64, page, pageSize int) ([]*dto.CommentUser, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	ids, total, err := s.followRepo.ListFollowerIDs(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.listUsers(ids)
	return users, total, err
}

// Following 关注列表
func (s *FollowService) Following(userID int64, page, pageSize int) ([]*dto.CommentUser, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	ids, total, err := s.followRepo.ListFolloweeIDs(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.listUsers(ids)
	return users, total, err
}

// Counts 关注数与粉丝数
func (s *FollowService) Counts(userID int64) (following int64, followers int64, err error) {
	return s.followRepo.Counts(userID)
}
