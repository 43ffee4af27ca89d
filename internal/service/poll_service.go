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
	ErrPollNotFound   = errors.New("投票不存在")
	ErrOptionNotFound = errors.New("选项不存在")
)

// PollService 观众投票。每人一票，可改选，结果实时计票。
type PollService struct {
	pollRepo    *repository.PollRepository
	showRepo    *repository.ShowRepository
	activitySvc *ActivityService
}

func NewPollService(
	pollRepo *repository.PollRepository,
	showRepo *repository.ShowRepository,
	activitySvc *ActivityService,
) *PollService {
	return &PollService{
		pollRepo:    pollRepo,
		showRepo:    showRepo,
		activitySvc: activitySvc,
	}
}

// Create 创建投票
func (s *PollService) Create(userID int64, req *dto.CreatePollRequest) (*dto.PollResult, error) {
	if _, err := s.showRepo.GetShow(req.ShowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}

	poll := &model.Poll{
		UserID:   userID,
		ShowID:   req.ShowID,
		Question: req.Question,
	}
	for _, label := range req.Options {
		poll.Options = append(poll.Options, &model.PollOption{Label: label})
	}
	if err := s.pollRepo.Create(poll); err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]interface{}{"poll_id": poll.ID})
	_ = s.activitySvc.Record(&model.ActivityRecord{
		GiverID:     userID,
		RecipientID: userID,
		Type:        model.ActivityPollCreated,
		Metadata:    string(metadata),
	})

	return s.Result(poll.ID, &userID)
}

// Vote 投票或改选
func (s *PollService) Vote(userID, pollID int64, req *dto.VotePollRequest) (*dto.PollResult, error) {
	poll, err := s.pollRepo.GetByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	valid := false
	for _, option := range poll.Options {
		if option.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrOptionNotFound
	}

	err = s.pollRepo.UpsertVote(&model.PollVote{
		PollID:   pollID,
		UserID:   userID,
		OptionID: req.OptionID,
	})
	if err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]interface{}{"poll_id": pollID})
	_ = s.activitySvc.Record(&model.ActivityRecord{
		GiverID:     userID,
		RecipientID: poll.UserID,
		Type:        model.ActivityPollVoted,
		Metadata:    string(metadata),
	})

	return s.Result(pollID, &userID)
}

// Result 实时计票结果
func (s *PollService) Result(pollID int64, viewerID *int64) (*dto.PollResult, error) {
	poll, err := s.pollRepo.GetByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	counts, err := s.pollRepo.CountByOption(pollID)
	if err != nil {
		return nil, err
	}

	result := &dto.PollResult{
		ID:        poll.ID,
		Question:  poll.Question,
		CreatedAt: poll.CreatedAt.Format(time.RFC3339),
	}
	for _, option := range poll.Options {
		votes := counts[option.ID]
		result.TotalVotes += votes
		result.Options = append(result.Options, &dto.PollResultOption{
			ID:    option.ID,
			Label: option.Label,
			Votes: votes,
		})
	}

	if viewerID != nil {
		vote, err := s.pollRepo.GetUserVote(pollID, *viewerID)
		if err == nil {
			result.UserOption = &vote.OptionID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return result, nil
}

// ListByShow 节目下的投票列表
func (s *PollService) ListByShow(showID int64, viewerID *int64, page, pageSize int) ([]*dto.PollResult, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	polls, total, err := s.pollRepo.ListByShow(showID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	results := make([]*dto.PollResult, 0, len(polls))
	for _, poll := range polls {
		result, err := s.Result(poll.ID, viewerID)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, result)
	}
	return results, total, nil
}
