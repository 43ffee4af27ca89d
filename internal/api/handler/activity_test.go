package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/repository"
	"github.com/unscripted/unscripted-server/internal/service"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func setupActivityHandler(t *testing.T) (*ActivityHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)

	activityService := service.NewActivityService(userRepo, activityRepo, privacyRepo, nil)
	handler := NewActivityHandler(activityService)

	ctx := &testContext{DB: db}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, ctx, cleanup
}

func TestActivityHandler_List_Public(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB)
	other := testutil.TestUser(t, ctx.DB)
	testutil.TestActivity(t, ctx.DB, owner.ID, other.ID, model.ActivityCommentAdded)
	testutil.TestActivity(t, ctx.DB, owner.ID, owner.ID, model.ActivityReviewCreated)

	router := gin.New()
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET", fmt.Sprintf("/users/%d/activity", owner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"])
}

func TestActivityHandler_List_PrivateHiddenFromStranger(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB, testutil.WithActivityPrivate())
	stranger := testutil.TestUser(t, ctx.DB)
	testutil.TestActivity(t, ctx.DB, owner.ID, owner.ID, model.ActivityReviewCreated)

	router := gin.New()
	router.Use(mockAuth(stranger.ID))
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET", fmt.Sprintf("/users/%d/activity", owner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), data["total"])
}

func TestActivityHandler_List_OwnerSeesOwn(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB, testutil.WithActivityPrivate())
	testutil.TestActivity(t, ctx.DB, owner.ID, owner.ID, model.ActivityReviewCreated)

	router := gin.New()
	router.Use(mockAuth(owner.ID))
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET", fmt.Sprintf("/users/%d/activity", owner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
}

func TestActivityHandler_List_TypeFilter(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB)
	testutil.TestActivity(t, ctx.DB, owner.ID, owner.ID, model.ActivityReviewCreated)
	testutil.TestActivity(t, ctx.DB, owner.ID, owner.ID, model.ActivityPollVoted)

	router := gin.New()
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET",
		fmt.Sprintf("/users/%d/activity?types=REVIEW_CREATED", owner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
}

func TestActivityHandler_List_InvalidMode(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET",
		fmt.Sprintf("/users/%d/activity?mode=everything", owner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestActivityHandler_List_UserNotFound(t *testing.T) {
	handler, _, cleanup := setupActivityHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET", "/users/99999/activity", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestActivityHandler_List_InvalidDate(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.GET("/users/:id/activity", handler.List)

	req := httptest.NewRequest("GET",
		fmt.Sprintf("/users/%d/activity?from=yesterday", owner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestActivityHandler_UpdatePrivacy(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(owner.ID))
	router.PUT("/users/me/privacy", handler.UpdatePrivacy)
	router.GET("/users/me/privacy", handler.GetPrivacy)

	w := performRequest(router, "PUT", "/users/me/privacy", dto.UpdatePrivacyRequest{
		Groups: map[string]bool{string(model.GroupMarket): false},
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "GET", "/users/me/privacy", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	groups, ok := data["groups"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, groups[string(model.GroupMarket)])
	assert.Equal(t, true, groups[string(model.GroupContent)])
}

func TestActivityHandler_UpdatePrivacy_UnknownGroup(t *testing.T) {
	handler, ctx, cleanup := setupActivityHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(owner.ID))
	router.PUT("/users/me/privacy", handler.UpdatePrivacy)

	w := performRequest(router, "PUT", "/users/me/privacy", dto.UpdatePrivacyRequest{
		Groups: map[string]bool{"secrets": false},
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
