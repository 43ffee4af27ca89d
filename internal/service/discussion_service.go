package service

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var (
	ErrDiscussionNotFound      = errors.New("讨论不存在")
	ErrDiscussionTargetMissing = errors.New("讨论必须关联节目或单集")
	ErrNotDiscussionAuthor     = errors.New("无权操作该讨论")
)

type DiscussionService struct {
	discussionRepo *repository.DiscussionRepository
	showRepo       *repository.ShowRepository
	activitySvc    *ActivityService
}

func NewDiscussionService(
	discussionRepo *repository.DiscussionRepository,
	showRepo *repository.ShowRepository,
	activitySvc *ActivityService,
) *DiscussionService {
	return &DiscussionService{
		discussionRepo: discussionRepo,
		showRepo:       showRepo,
		activitySvc:    activitySvc,
	}
}

// Create 创建讨论帖，需关联节目或单集其一
func (s *DiscussionService) Create(userID int64, req *dto.CreateDiscussionRequest) (*dto.DiscussionItem, error) {
	if req.ShowID == nil && req.EpisodeID == nil {
		return nil, ErrDiscussionTargetMissing
	}

	if req.ShowID != nil {
		if _, err := s.showRepo.GetShow(*req.ShowID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDiscussionTargetMissing
			}
			return nil, err
		}
	}
	if req.EpisodeID != nil {
		if _, err := s.showRepo.GetEpisode(*req.EpisodeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDiscussionTargetMissing
			}
			return nil, err
		}
	}

	discussion := &model.Discussion{
		UserID:    userID,
		ShowID:    req.ShowID,
		EpisodeID: req.EpisodeID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := s.discussionRepo.Create(discussion); err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]interface{}{"discussion_id": discussion.ID})
	_ = s.activitySvc.Record(&model.ActivityRecord{
		GiverID:     userID,
		RecipientID: userID,
		Type:        model.ActivityDiscussionCreated,
		Metadata:    string(metadata),
	})

	created, err := s.discussionRepo.GetByID(discussion.ID)
	if err != nil {
		return nil, err
	}
	return toDiscussionItem(created), nil
}

// Get 讨论详情
func (s *DiscussionService) Get(id int64) (*dto.DiscussionItem, error) {
	discussion, err := s.discussionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscussionNotFound
		}
		return nil, err
	}
	return toDiscussionItem(discussion), nil
}

// List 讨论列表
func (s *DiscussionService) List(showID, episodeID *int64, page, pageSize int) ([]*dto.DiscussionItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	discussions, total, err := s.discussionRepo.List(showID, episodeID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.DiscussionItem, 0, len(discussions))
	for _, discussion := range discussions {
		items = append(items, toDiscussionItem(discussion))
	}
	return items, total, nil
}

// Delete 删除讨论帖，仅作者可删
func (s *DiscussionService) Delete(userID, discussionID int64) error {
	discussion, err := s.discussionRepo.GetByID(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDiscussionNotFound
		}
		return err
	}
	if discussion.UserID != userID {
		return ErrNotDiscussionAuthor
	}
	return s.discussionRepo.Delete(discussionID)
}

func toDiscussionItem(discussion *model.Discussion) *dto.DiscussionItem {
	item := &dto.DiscussionItem{
		ID:        discussion.ID,
		ShowID:    discussion.ShowID,
		EpisodeID: discussion.EpisodeID,
		Title:     discussion.Title,
		Body:      discussion.Body,
		CreatedAt: discussion.CreatedAt.Format(time.RFC3339),
	}
	if discussion.User != nil {
		item.User = &dto.CommentUser{
			ID:        discussion.User.ID,
			Username:  discussion.User.Username,
			AvatarURL: discussion.User.AvatarURL,
		}
	}
	return item
}
