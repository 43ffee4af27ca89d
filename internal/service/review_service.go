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
	ErrReviewNotFound      = errors.New("评测不存在")
	ErrReviewTargetInvalid = errors.New("评测目标必须且只能指定一个")
	ErrReviewTargetMissing = errors.New("评测目标不存在")
	ErrReviewExists        = errors.New("已评测过该目标")
	ErrNotReviewAuthor     = errors.New("无权操作该评测")
)

// ReviewService 评测。每用户对同一目标仅一篇，目标三选一。
type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	showRepo    *repository.ShowRepository
	activitySvc *ActivityService
	pointsSvc   *PointsService
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	showRepo *repository.ShowRepository,
	activitySvc *ActivityService,
	pointsSvc *PointsService,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		showRepo:    showRepo,
		activitySvc: activitySvc,
		pointsSvc:   pointsSvc,
	}
}

// validateTarget 校验目标互斥且存在
func (s *ReviewService) validateTarget(showID, seasonID, episodeID *int64) error {
	set := 0
	for _, id := range []*int64{showID, seasonID, episodeID} {
		if id != nil {
			set++
		}
	}
	if set != 1 {
		return ErrReviewTargetInvalid
	}

	var err error
	switch {
	case showID != nil:
		_, err = s.showRepo.GetShow(*showID)
	case seasonID != nil:
		_, err = s.showRepo.GetSeason(*seasonID)
	default:
		_, err = s.showRepo.GetEpisode(*episodeID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewTargetMissing
		}
		return err
	}
	return nil
}

// Create 发表评测
func (s *ReviewService) Create(userID int64, req *dto.CreateReviewRequest) (*dto.ReviewItem, error) {
	if err := s.validateTarget(req.ShowID, req.SeasonID, req.EpisodeID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByUserAndTarget(userID, req.ShowID, req.SeasonID, req.EpisodeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	review := &model.Review{
		UserID:    userID,
		ShowID:    req.ShowID,
		SeasonID:  req.SeasonID,
		EpisodeID: req.EpisodeID,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]interface{}{"review_id": review.ID})
	_ = s.activitySvc.Record(&model.ActivityRecord{
		GiverID:     userID,
		RecipientID: userID,
		Type:        model.ActivityReviewCreated,
		Metadata:    string(metadata),
	})

	if s.pointsSvc != nil && s.pointsSvc.CanEarnReviewPoints(userID) {
		_ = s.pointsSvc.Add(userID, PointsReviewCreate, ActionReviewCreate)
	}

	created, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	return toReviewItem(created), nil
}

// Update 修改评测，目标不可改
func (s *ReviewService) Update(userID, reviewID int64, req *dto.UpdateReviewRequest) (*dto.ReviewItem, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotReviewAuthor
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Body != nil {
		review.Body = *req.Body
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return toReviewItem(review), nil
}

// Delete 删除评测
func (s *ReviewService) Delete(userID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewAuthor
	}
	return s.reviewRepo.Delete(reviewID)
}

// ListByTarget 目标下的评测列表及平均分
func (s *ReviewService) ListByTarget(showID, seasonID, episodeID *int64, page, pageSize int) ([]*dto.ReviewItem, int64, float64, error) {
	if err := s.validateTarget(showID, seasonID, episodeID); err != nil {
		return nil, 0, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	reviews, total, err := s.reviewRepo.ListByTarget(showID, seasonID, episodeID, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}

	avg, err := s.reviewRepo.AverageRating(showID, seasonID, episodeID)
	if err != nil {
		return nil, 0, 0, err
	}

	items := make([]*dto.ReviewItem, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewItem(review))
	}
	return items, total, avg, nil
}

// ListByUser 用户的评测列表
func (s *ReviewService) ListByUser(userID int64, page, pageSize int) ([]*dto.ReviewItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	reviews, total, err := s.reviewRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ReviewItem, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewItem(review))
	}
	return items, total, nil
}

func toReviewItem(review *model.Review) *dto.ReviewItem {
	item := &dto.ReviewItem{
		ID:        review.ID,
		ShowID:    review.ShowID,
		SeasonID:  review.SeasonID,
		EpisodeID: review.EpisodeID,
		Rating:    review.Rating,
		Title:     review.Title,
		Body:      review.Body,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
	if review.User != nil {
		item.User = &dto.CommentUser{
			ID:        review.User.ID,
			Username:  review.User.Username,
			AvatarURL: review.User.AvatarURL,
		}
	}
	return item
}
