package service

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/ranking"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var ErrCommentDeleted = errors.New("评论已删除")

// VoteService 评论投票。每 (comment, voter) 一行，重复投票幂等，
// 改票覆盖原值并回冲作者积分，不提供撤票。
type VoteService struct {
	commentRepo *repository.CommentRepository
	voteRepo    *repository.VoteRepository
	activitySvc *ActivityService
	pointsSvc   *PointsService
}

func NewVoteService(
	commentRepo *repository.CommentRepository,
	voteRepo *repository.VoteRepository,
	activitySvc *ActivityService,
	pointsSvc *PointsService,
) *VoteService {
	return &VoteService{
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		activitySvc: activitySvc,
		pointsSvc:   pointsSvc,
	}
}

// pointsFor 投票极性对作者的积分影响
func pointsFor(value model.VotePolarity) int64 {
	if value == model.VoteUp {
		return PointsCommentUpvoted
	}
	return PointsCommentDowned
}

// activityTypeFor 投票极性对应的动态类型
func activityTypeFor(value model.VotePolarity) model.ActivityType {
	if value == model.VoteUp {
		return model.ActivityCommentUpvoted
	}
	return model.ActivityCommentDownvoted
}

// Vote 对评论投票。wire 取值 "1"/"-1"，内部立即转为命名极性。
func (s *VoteService) Vote(userID, commentID int64, wire string) (*dto.VoteCommentResponse, error) {
	value, err := model.ParsePolarity(wire)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.IsDeleted {
		return nil, ErrCommentDeleted
	}

	var prev *model.CommentVote
	existing, err := s.voteRepo.Get(commentID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		prev = existing
	}

	changed := prev == nil || prev.Value != value
	if changed {
		err = s.voteRepo.Upsert(&model.CommentVote{
			CommentID: commentID,
			UserID:    userID,
			Value:     value,
		})
		if err != nil {
			return nil, err
		}

		s.settleVoteSideEffects(userID, comment, prev, value)
	}

	tallies, err := s.voteRepo.TallyByCommentIDs([]int64{commentID})
	if err != nil {
		return nil, err
	}
	tally := tallies[commentID]

	return &dto.VoteCommentResponse{
		CommentID: commentID,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		Score:     ranking.NetScore(tally.Upvotes, tally.Downvotes),
		UserVote:  string(value),
	}, nil
}

// settleVoteSideEffects 投票落库后的作者积分与动态。
// 改票先回冲旧值再计新值；给自己投票不产生积分与动态。
func (s *VoteService) settleVoteSideEffects(voterID int64, comment *model.Comment, prev *model.CommentVote, value model.VotePolarity) {
	if voterID == comment.UserID {
		return
	}

	if s.pointsSvc != nil {
		delta := pointsFor(value)
		action := ActionCommentUpvoted
		if value == model.VoteDown {
			action = ActionCommentDowned
		}
		if prev != nil {
			delta -= pointsFor(prev.Value)
			action = ActionVoteReversed
		}
		if delta != 0 {
			_ = s.pointsSvc.Add(comment.UserID, delta, action)
		}
	}

	if s.activitySvc != nil {
		metadata, _ := json.Marshal(map[string]interface{}{"comment_id": comment.ID})
		_ = s.activitySvc.Record(&model.ActivityRecord{
			GiverID:     voterID,
			RecipientID: comment.UserID,
			Type:        activityTypeFor(value),
			Metadata:    string(metadata),
		})
	}
}
