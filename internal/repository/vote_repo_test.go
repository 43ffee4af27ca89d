package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func TestVoteRepository_UpsertOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewVoteRepository(db)
	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, author.ID)
	comment := testutil.TestComment(t, db, author.ID, discussion.ID)

	require.NoError(t, repo.Upsert(&model.CommentVote{
		CommentID: comment.ID,
		UserID:    voter.ID,
		Value:     model.VoteUp,
	}))

	// Same voter flips polarity, still one row
	require.NoError(t, repo.Upsert(&model.CommentVote{
		CommentID: comment.ID,
		UserID:    voter.ID,
		Value:     model.VoteDown,
	}))

	vote, err := repo.Get(comment.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoteDown, vote.Value)

	var count int64
	require.NoError(t, db.Model(&model.CommentVote{}).Where("comment_id = ?", comment.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVoteRepository_GetNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewVoteRepository(db)

	_, err := repo.Get(999, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVoteRepository_TallyByCommentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewVoteRepository(db)
	author := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, author.ID)
	c1 := testutil.TestComment(t, db, author.ID, discussion.ID)
	c2 := testutil.TestComment(t, db, author.ID, discussion.ID)
	c3 := testutil.TestComment(t, db, author.ID, discussion.ID)

	testutil.SeedVotes(t, db, c1.ID, 3, 1)
	testutil.SeedVotes(t, db, c2.ID, 0, 2)

	tallies, err := repo.TallyByCommentIDs([]int64{c1.ID, c2.ID, c3.ID})
	require.NoError(t, err)

	assert.Equal(t, VoteTally{Upvotes: 3, Downvotes: 1}, tallies[c1.ID])
	assert.Equal(t, VoteTally{Upvotes: 0, Downvotes: 2}, tallies[c2.ID])
	// Unvoted comment simply absent, zero value works downstream
	_, ok := tallies[c3.ID]
	assert.False(t, ok)
}

func TestVoteRepository_UserVotesByCommentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewVoteRepository(db)
	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, author.ID)
	c1 := testutil.TestComment(t, db, author.ID, discussion.ID)
	c2 := testutil.TestComment(t, db, author.ID, discussion.ID)

	testutil.TestVote(t, db, c1.ID, voter.ID, model.VoteUp)
	testutil.TestVote(t, db, c2.ID, author.ID, model.VoteDown) // someone else

	votes, err := repo.UserVotesByCommentIDs(voter.ID, []int64{c1.ID, c2.ID})
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, model.VoteUp, votes[c1.ID])
}
