package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func TestPointsService_AddWritesLedgerAndBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPointsService(db)
	user := testutil.TestUser(t, db, testutil.WithPoints(0))

	require.NoError(t, svc.Add(user.ID, 10, ActionReviewCreate))
	require.NoError(t, svc.Add(user.ID, -3, ActionCommentDowned))

	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), balance)

	recomputed, err := svc.RecomputeBalance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, balance, recomputed)

	var logs []model.PointLog
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&logs).Error)
	assert.Len(t, logs, 2)
}

func TestPointsService_SpendInsufficientRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPointsService(db)
	user := testutil.TestUser(t, db, testutil.WithPoints(50))

	txErr := db.Transaction(func(tx *gorm.DB) error {
		return svc.SpendTx(tx, user.ID, 100, ActionBetPlace)
	})
	assert.ErrorIs(t, txErr, ErrInsufficientPoints)

	// Balance untouched, no ledger row
	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	var count int64
	require.NoError(t, db.Model(&model.PointLog{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPointsService_SpendDeductsWithLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPointsService(db)
	user := testutil.TestUser(t, db, testutil.WithPoints(50))

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.SpendTx(tx, user.ID, 20, ActionBetPlace)
	})
	require.NoError(t, err)

	balance, err := svc.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	var log model.PointLog
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&log).Error)
	assert.Equal(t, int64(-20), log.Amount)
	assert.Equal(t, ActionBetPlace, log.Action)
}

func TestPointsService_DailyReviewLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPointsService(db)
	user := testutil.TestUser(t, db, testutil.WithPoints(0))

	for i := 0; i < DailyReviewPointLimit; i++ {
		assert.True(t, svc.CanEarnReviewPoints(user.ID))
		require.NoError(t, svc.Add(user.ID, PointsReviewCreate, ActionReviewCreate))
	}
	assert.False(t, svc.CanEarnReviewPoints(user.ID))

	// Other actions do not count against the review limit
	require.NoError(t, svc.Add(user.ID, PointsCommentUpvoted, ActionCommentUpvoted))
	assert.False(t, svc.CanEarnReviewPoints(user.ID))
}

func TestPointsService_History(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPointsService(db)
	user := testutil.TestUser(t, db, testutil.WithPoints(0))

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Add(user.ID, 1, ActionCommentUpvoted))
	}

	logs, total, err := svc.History(user.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, logs, 3)
}
