package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func TestCommentRepository_ListTopLevel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, user.ID)
	other := testutil.TestDiscussion(t, db, user.ID)

	c1 := testutil.TestComment(t, db, user.ID, discussion.ID)
	c2 := testutil.TestComment(t, db, user.ID, discussion.ID)
	testutil.TestReply(t, db, user.ID, c1)
	testutil.TestComment(t, db, user.ID, other.ID)

	comments, err := repo.ListTopLevel(model.CommentRoot{Kind: model.RootDiscussion, ID: discussion.ID})
	require.NoError(t, err)
	require.Len(t, comments, 2)

	ids := []int64{comments[0].ID, comments[1].ID}
	assert.Contains(t, ids, c1.ID)
	assert.Contains(t, ids, c2.ID)
	// User preloaded for rendering
	assert.NotNil(t, comments[0].User)
}

func TestCommentRepository_ListChildren(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, user.ID)

	parent := testutil.TestComment(t, db, user.ID, discussion.ID)
	r1 := testutil.TestReply(t, db, user.ID, parent)
	r2 := testutil.TestReply(t, db, user.ID, parent)
	testutil.TestComment(t, db, user.ID, discussion.ID) // unrelated top-level

	children, err := repo.ListChildren([]int64{parent.ID})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.ElementsMatch(t, []int64{r1.ID, r2.ID}, []int64{children[0].ID, children[1].ID})

	empty, err := repo.ListChildren(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, user.ID)

	c1 := testutil.TestComment(t, db, user.ID, discussion.ID)
	testutil.TestComment(t, db, user.ID, discussion.ID)
	reply := testutil.TestReply(t, db, user.ID, c1)
	testutil.TestReply(t, db, user.ID, reply)

	root := model.CommentRoot{Kind: model.RootDiscussion, ID: discussion.ID}

	topLevel, err := repo.CountTopLevel(root)
	require.NoError(t, err)
	assert.Equal(t, int64(2), topLevel)

	replies, err := repo.CountReplies(root)
	require.NoError(t, err)
	assert.Equal(t, int64(2), replies)
}

func TestCommentRepository_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	discussion := testutil.TestDiscussion(t, db, user.ID)

	comment := testutil.TestComment(t, db, user.ID, discussion.ID)
	reply := testutil.TestReply(t, db, user.ID, comment)

	require.NoError(t, repo.SoftDelete(comment.ID))

	// Row survives so the reply keeps its anchor; content is kept in
	// storage and only hidden at render time
	deleted, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, comment.Content, deleted.Content)

	children, err := repo.ListChildren([]int64{comment.ID})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, reply.ID, children[0].ID)
}

func TestCommentRepository_PredictionRoot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	show := testutil.TestShow(t, db)
	season := testutil.TestSeason(t, db, show.ID)
	episode := testutil.TestEpisode(t, db, season.ID)
	prediction := testutil.TestPrediction(t, db, user.ID, episode.ID)

	comment := &model.Comment{
		UserID:       user.ID,
		PredictionID: &prediction.ID,
		Content:      "market talk",
	}
	require.NoError(t, repo.Create(comment))

	comments, err := repo.ListTopLevel(model.CommentRoot{Kind: model.RootPrediction, ID: prediction.ID})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}
