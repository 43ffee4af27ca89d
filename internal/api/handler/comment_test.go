package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/repository"
	"github.com/unscripted/unscripted-server/internal/service"
	"github.com/unscripted/unscripted-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext 本地测试上下文
type testContext struct {
	DB *gorm.DB
}

func setupCommentHandler(t *testing.T) (*CommentHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)

	activityService := service.NewActivityService(userRepo, activityRepo, privacyRepo, nil)
	pointsService := service.NewPointsService(db)
	commentService := service.NewCommentService(
		db, commentRepo, voteRepo, discussionRepo, predictionRepo, activityService, pointsService)
	voteService := service.NewVoteService(commentRepo, voteRepo, activityService, pointsService)

	handler := NewCommentHandler(commentService, voteService)

	ctx := &testContext{DB: db}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, ctx, cleanup
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func TestCommentHandler_Tree_WireShape(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	commenter := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)

	top := testutil.TestComment(t, ctx.DB, commenter.ID, discussion.ID)
	testutil.TestReply(t, ctx.DB, author.ID, top)
	testutil.SeedVotes(t, ctx.DB, top.ID, 3, 1)

	router := gin.New()
	router.GET("/discussions/:id/comments", handler.ListForDiscussion)

	req := httptest.NewRequest("GET", fmt.Sprintf("/discussions/%d/comments", discussion.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// 字段名是前端契约，必须逐项核对
	var raw struct {
		Code int `json:"code"`
		Data struct {
			Total int64                    `json:"total"`
			Items []map[string]interface{} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, response.CodeSuccess, raw.Code)
	assert.Equal(t, int64(1), raw.Data.Total)
	require.Len(t, raw.Data.Items, 1)

	node := raw.Data.Items[0]
	assert.Equal(t, float64(3), node["upvotes"])
	assert.Equal(t, float64(1), node["downvotes"])
	assert.Equal(t, float64(2), node["score"])
	assert.Contains(t, node, "wilsonScore")
	assert.Contains(t, node, "parentId")
	assert.Contains(t, node, "createdAt")
	// 匿名访问不带 userVote
	assert.NotContains(t, node, "userVote")

	replies, ok := node["replies"].([]interface{})
	require.True(t, ok)
	require.Len(t, replies, 1)
	reply := replies[0].(map[string]interface{})
	assert.Equal(t, float64(1), reply["depth"])
}

func TestCommentHandler_Tree_RootNotFound(t *testing.T) {
	handler, _, cleanup := setupCommentHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/discussions/:id/comments", handler.ListForDiscussion)

	req := httptest.NewRequest("GET", "/discussions/99999/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestCommentHandler_Tree_InvalidSort(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)

	router := gin.New()
	router.GET("/discussions/:id/comments", handler.ListForDiscussion)

	req := httptest.NewRequest("GET", fmt.Sprintf("/discussions/%d/comments?sort=hot", discussion.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestCommentHandler_Create_Success(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	commenter := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)

	router := gin.New()
	router.Use(mockAuth(commenter.ID))
	router.POST("/discussions/:id/comments", handler.CreateForDiscussion)

	req := dto.CreateCommentRequest{Content: "第一集节奏太慢了"}
	w := performRequest(router, "POST", fmt.Sprintf("/discussions/%d/comments", discussion.ID), req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "第一集节奏太慢了", data["content"])
	assert.Equal(t, float64(0), data["depth"])
}

func TestCommentHandler_Create_ParentMismatch(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	discussionA := testutil.TestDiscussion(t, ctx.DB, author.ID)
	discussionB := testutil.TestDiscussion(t, ctx.DB, author.ID)
	parent := testutil.TestComment(t, ctx.DB, author.ID, discussionA.ID)

	router := gin.New()
	router.Use(mockAuth(author.ID))
	router.POST("/discussions/:id/comments", handler.CreateForDiscussion)

	req := dto.CreateCommentRequest{Content: "挂错树的回复", ParentID: &parent.ID}
	w := performRequest(router, "POST", fmt.Sprintf("/discussions/%d/comments", discussionB.ID), req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestCommentHandler_Create_EmptyContent(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)

	router := gin.New()
	router.Use(mockAuth(author.ID))
	router.POST("/discussions/:id/comments", handler.CreateForDiscussion)

	w := performRequest(router, "POST", fmt.Sprintf("/discussions/%d/comments", discussion.ID),
		dto.CreateCommentRequest{Content: ""})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestCommentHandler_Vote_WireValues(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	voter := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)
	comment := testutil.TestComment(t, ctx.DB, author.ID, discussion.ID)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/comments/:id/vote", handler.Vote)

	w := performRequest(router, "POST", fmt.Sprintf("/comments/%d/vote", comment.ID),
		map[string]string{"value": "1"})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["upvotes"])
	assert.Equal(t, string(model.VoteUp), data["userVote"])

	// 历史接口只认 "1" 和 "-1"
	for _, bad := range []string{"0", "2", "up", ""} {
		w := performRequest(router, "POST", fmt.Sprintf("/comments/%d/vote", comment.ID),
			map[string]string{"value": bad})
		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeParamError, resp.Code, "value=%q", bad)
	}
}

func TestCommentHandler_Vote_CommentNotFound(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	voter := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/comments/:id/vote", handler.Vote)

	w := performRequest(router, "POST", "/comments/99999/vote", map[string]string{"value": "1"})

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestCommentHandler_Delete_NotAuthor(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	other := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)
	comment := testutil.TestComment(t, ctx.DB, author.ID, discussion.ID)

	router := gin.New()
	router.Use(mockAuth(other.ID))
	router.DELETE("/comments/:id", handler.Delete)

	w := performRequest(router, "DELETE", fmt.Sprintf("/comments/%d", comment.ID), nil)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestCommentHandler_Tree_ViewerVote(t *testing.T) {
	handler, ctx, cleanup := setupCommentHandler(t)
	defer cleanup()

	author := testutil.TestUser(t, ctx.DB)
	viewer := testutil.TestUser(t, ctx.DB)
	discussion := testutil.TestDiscussion(t, ctx.DB, author.ID)
	comment := testutil.TestComment(t, ctx.DB, author.ID, discussion.ID)
	testutil.TestVote(t, ctx.DB, comment.ID, viewer.ID, model.VoteDown)

	router := gin.New()
	router.Use(mockAuth(viewer.ID))
	router.GET("/discussions/:id/comments", handler.ListForDiscussion)

	req := httptest.NewRequest("GET", fmt.Sprintf("/discussions/%d/comments", discussion.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var raw struct {
		Data struct {
			Items []map[string]interface{} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw.Data.Items, 1)
	assert.Equal(t, string(model.VoteDown), raw.Data.Items[0]["userVote"])
}
