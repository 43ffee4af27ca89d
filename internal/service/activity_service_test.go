package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/repository"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func newActivityService(db *gorm.DB) *ActivityService {
	return NewActivityService(
		repository.NewUserRepository(db),
		repository.NewActivityRepository(db),
		repository.NewPrivacyRepository(db),
		nil,
	)
}

// seedOnePerGroup writes one self-activity in each of the four groups
func seedOnePerGroup(t *testing.T, db *gorm.DB, userID int64) {
	t.Helper()
	testutil.TestActivity(t, db, userID, userID, model.ActivityReviewCreated)   // content
	testutil.TestActivity(t, db, userID, userID, model.ActivityCommentAdded)    // engagement
	testutil.TestActivity(t, db, userID, userID, model.ActivityBetPlaced)       // market
	testutil.TestActivity(t, db, userID, userID, model.ActivityWatchlistAdded)  // social
}

func TestActivityService_OwnerSeesEverything(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	user := testutil.TestUser(t, db, testutil.WithActivityPrivate())
	seedOnePerGroup(t, db, user.ID)

	items, total, err := svc.List(&user.ID, user.ID, &dto.ActivityQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 4)
}

func TestActivityService_GlobalFlagHidesAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	target := testutil.TestUser(t, db, testutil.WithActivityPrivate())
	viewer := testutil.TestUser(t, db)
	seedOnePerGroup(t, db, target.ID)

	items, total, err := svc.List(&viewer.ID, target.ID, &dto.ActivityQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	// Anonymous viewer gets the same treatment
	items, total, err = svc.List(nil, target.ID, &dto.ActivityQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestActivityService_GroupSettingHidesGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	target := testutil.TestUser(t, db)
	viewer := testutil.TestUser(t, db)
	seedOnePerGroup(t, db, target.ID)
	testutil.TestPrivacySetting(t, db, target.ID, model.GroupMarket, false)

	items, total, err := svc.List(&viewer.ID, target.ID, &dto.ActivityQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, item := range items {
		assert.NotEqual(t, string(model.GroupMarket), item.ActivityGroup)
	}

	// Owner still sees the hidden group
	_, total, err = svc.List(&target.ID, target.ID, &dto.ActivityQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestActivityService_UnsetGroupDefaultsVisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	target := testutil.TestUser(t, db)
	viewer := testutil.TestUser(t, db)
	seedOnePerGroup(t, db, target.ID)

	// No privacy rows at all: everything visible
	_, total, err := svc.List(&viewer.ID, target.ID, &dto.ActivityQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestActivityService_TypeAndGroupFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	user := testutil.TestUser(t, db)
	seedOnePerGroup(t, db, user.ID)

	items, total, err := svc.List(&user.ID, user.ID, &dto.ActivityQuery{
		Groups: []string{string(model.GroupContent)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, string(model.ActivityReviewCreated), items[0].Type)

	items, total, err = svc.List(&user.ID, user.ID, &dto.ActivityQuery{
		Types: []string{string(model.ActivityBetPlaced)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, string(model.ActivityBetPlaced), items[0].Type)

	// Requested filter never overrides privacy
	viewer := testutil.TestUser(t, db)
	testutil.TestPrivacySetting(t, db, user.ID, model.GroupMarket, false)
	_, total, err = svc.List(&viewer.ID, user.ID, &dto.ActivityQuery{
		Types: []string{string(model.ActivityBetPlaced)},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestActivityService_IncomingMode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	testutil.TestActivity(t, db, bob.ID, alice.ID, model.ActivityCommentUpvoted)
	testutil.TestActivity(t, db, alice.ID, bob.ID, model.ActivityUserFollowed)

	items, total, err := svc.List(&alice.ID, alice.ID, &dto.ActivityQuery{Mode: dto.ActivityModeIncoming})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, bob.ID, items[0].GiverID)

	_, _, err = svc.List(&alice.ID, alice.ID, &dto.ActivityQuery{Mode: "random"})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestActivityService_DateRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	user := testutil.TestUser(t, db)

	now := time.Now()
	testutil.TestActivity(t, db, user.ID, user.ID, model.ActivityCommentAdded,
		testutil.WithActivityCreatedAt(now.Add(-72*time.Hour)))
	testutil.TestActivity(t, db, user.ID, user.ID, model.ActivityCommentAdded,
		testutil.WithActivityCreatedAt(now.Add(-time.Hour)))

	from := now.Add(-24 * time.Hour)
	_, total, err := svc.List(&user.ID, user.ID, &dto.ActivityQuery{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestActivityService_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)

	_, _, err := svc.List(nil, 99999, &dto.ActivityQuery{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestActivityService_UpdatePrivacy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newActivityService(db)
	user := testutil.TestUser(t, db)

	off := false
	resp, err := svc.UpdatePrivacy(user.ID, &dto.UpdatePrivacyRequest{
		ActivityPublic: &off,
		Groups:         map[string]bool{string(model.GroupSocial): false},
	})
	require.NoError(t, err)
	assert.False(t, resp.ActivityPublic)
	assert.False(t, resp.Groups[string(model.GroupSocial)])
	assert.True(t, resp.Groups[string(model.GroupContent)])

	// Upsert: flipping back updates the same row
	resp, err = svc.UpdatePrivacy(user.ID, &dto.UpdatePrivacyRequest{
		Groups: map[string]bool{string(model.GroupSocial): true},
	})
	require.NoError(t, err)
	assert.True(t, resp.Groups[string(model.GroupSocial)])

	_, err = svc.UpdatePrivacy(user.ID, &dto.UpdatePrivacyRequest{
		Groups: map[string]bool{"nonsense": true},
	})
	assert.ErrorIs(t, err, ErrUnknownActivityGroup)
}
