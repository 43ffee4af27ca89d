package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/repository"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func newVoteService(db *gorm.DB) *VoteService {
	activitySvc := NewActivityService(
		repository.NewUserRepository(db),
		repository.NewActivityRepository(db),
		repository.NewPrivacyRepository(db),
		nil,
	)
	return NewVoteService(
		repository.NewCommentRepository(db),
		repository.NewVoteRepository(db),
		activitySvc,
		NewPointsService(db),
	)
}

func TestVoteService_UpvoteAndWireMapping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newVoteService(db)
	author := testutil.TestUser(t, db, testutil.WithPoints(0))
	voter := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, author.ID)
	comment := testutil.TestComment(t, db, author.ID, discussion.ID)

	resp, err := svc.Vote(voter.ID, comment.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Upvotes)
	assert.Equal(t, 0, resp.Downvotes)
	assert.Equal(t, 1, resp.Score)
	assert.Equal(t, string(model.VoteUp), resp.UserVote)

	// Author earned upvote points
	var authorRow model.User
	require.NoError(t, db.First(&authorRow, author.ID).Error)
	assert.Equal(t, int64(PointsCommentUpvoted), authorRow.Points)

	// Activity recorded toward the author
	var record model.ActivityRecord
	require.NoError(t, db.Where("type = ?", model.ActivityCommentUpvoted).First(&record).Error)
	assert.Equal(t, voter.ID, record.GiverID)
	assert.Equal(t, author.ID, record.RecipientID)
}

func TestVoteService_InvalidWireValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newVoteService(db)
	user := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, discussion.ID)

	for _, wire := range []string{"0", "2", "up", "UPVOTE", ""} {
		_, err := svc.Vote(user.ID, comment.ID, wire)
		assert.ErrorIs(t, err, model.ErrInvalidPolarity, "wire value %q", wire)
	}
}

func TestVoteService_RepeatVoteIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newVoteService(db)
	author := testutil.TestUser(t, db, testutil.WithPoints(0))
	voter := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, author.ID)
	comment := testutil.TestComment(t, db, author.ID, discussion.ID)

	_, err := svc.Vote(voter.ID, comment.ID, "1")
	require.NoError(t, err)
	resp, err := svc.Vote(voter.ID, comment.ID, "1")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Upvotes)

	// No double points, no duplicate activity
	var authorRow model.User
	require.NoError(t, db.First(&authorRow, author.ID).Error)
	assert.Equal(t, int64(PointsCommentUpvoted), authorRow.Points)

	var count int64
	require.NoError(t, db.Model(&model.ActivityRecord{}).
		Where("type = ?", model.ActivityCommentUpvoted).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVoteService_FlipReversesPoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newVoteService(db)
	author := testutil.TestUser(t, db, testutil.WithPoints(0))
	voter := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, author.ID)
	comment := testutil.TestComment(t, db, author.ID, discussion.ID)

	_, err := svc.Vote(voter.ID, comment.ID, "1")
	require.NoError(t, err)
	resp, err := svc.Vote(voter.ID, comment.ID, "-1")
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Upvotes)
	assert.Equal(t, 1, resp.Downvotes)
	assert.Equal(t, -1, resp.Score)
	assert.Equal(t, string(model.VoteDown), resp.UserVote)

	// +2 reversed to -1: balance lands on the downvote value
	var authorRow model.User
	require.NoError(t, db.First(&authorRow, author.ID).Error)
	assert.Equal(t, int64(PointsCommentDowned), authorRow.Points)

	// Ledger still explains the balance
	balance, err := NewPointsService(db).RecomputeBalance(author.ID)
	require.NoError(t, err)
	assert.Equal(t, authorRow.Points, balance)
}

func TestVoteService_SelfVoteEarnsNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newVoteService(db)
	author := testutil.TestUser(t, db, testutil.WithPoints(0))
	discussion := testutil.TestDiscussion(t, db, author.ID)
	comment := testutil.TestComment(t, db, author.ID, discussion.ID)

	resp, err := svc.Vote(author.ID, comment.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Upvotes)

	var authorRow model.User
	require.NoError(t, db.First(&authorRow, author.ID).Error)
	assert.Zero(t, authorRow.Points)

	var count int64
	require.NoError(t, db.Model(&model.ActivityRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVoteService_TargetValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newVoteService(db)
	user := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, discussion.ID)

	_, err := svc.Vote(user.ID, 99999, "1")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	require.NoError(t, repository.NewCommentRepository(db).SoftDelete(comment.ID))
	_, err = svc.Vote(user.ID, comment.ID, "1")
	assert.ErrorIs(t, err, ErrCommentDeleted)
}
