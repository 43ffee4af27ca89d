package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unscripted/unscripted-server/internal/api/middleware"
	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/response"
	"github.com/unscripted/unscripted-server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	voteService    *service.VoteService
}

func NewCommentHandler(commentService *service.CommentService, voteService *service.VoteService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		voteService:    voteService,
	}
}

// parseRoot 根实体来自路径：/discussions/:id/comments 或 /predictions/:id/comments
func parseRoot(c *gin.Context, kind model.CommentRootKind) (model.CommentRoot, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的ID")
		return model.CommentRoot{}, false
	}
	return model.CommentRoot{Kind: kind, ID: id}, true
}

// tree 评论树通用处理
func (h *CommentHandler) tree(c *gin.Context, kind model.CommentRootKind) {
	root, ok := parseRoot(c, kind)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	query := &dto.CommentTreeQuery{
		Sort:     c.DefaultQuery("sort", service.SortBest),
		MaxDepth: model.MaxCommentDepth,
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("max_depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			response.ParamError(c, "无效的 max_depth")
			return
		}
		query.MaxDepth = depth
	}
	if raw := c.Query("parent_id"); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ParamError(c, "无效的 parent_id")
			return
		}
		query.ParentID = &parentID
	}

	viewerID := middleware.GetOptionalUserID(c)

	nodes, total, err := h.commentService.Tree(viewerID, root, query)
	if err != nil {
		switch err {
		case service.ErrRootEntityNotFound, service.ErrParentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrInvalidSort, service.ErrParentMismatch:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, nodes)
}

// create 发表评论通用处理
func (h *CommentHandler) create(c *gin.Context, kind model.CommentRootKind) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	root, ok := parseRoot(c, kind)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	node, err := h.commentService.Add(userID, root, &req)
	if err != nil {
		switch err {
		case service.ErrRootEntityNotFound, service.ErrParentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrParentMismatch, service.ErrNestingTooDeep:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", node)
}

// stats 评论统计通用处理
func (h *CommentHandler) stats(c *gin.Context, kind model.CommentRootKind) {
	root, ok := parseRoot(c, kind)
	if !ok {
		return
	}

	stats, err := h.commentService.Stats(root)
	if err != nil {
		switch err {
		case service.ErrRootEntityNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, stats)
}

// ListForDiscussion 讨论下的评论树
// GET /api/v1/discussions/:id/comments
func (h *CommentHandler) ListForDiscussion(c *gin.Context) {
	h.tree(c, model.RootDiscussion)
}

// ListForPrediction 预测市场下的评论树
// GET /api/v1/predictions/:id/comments
func (h *CommentHandler) ListForPrediction(c *gin.Context) {
	h.tree(c, model.RootPrediction)
}

// CreateForDiscussion 在讨论下发表评论
// POST /api/v1/discussions/:id/comments
func (h *CommentHandler) CreateForDiscussion(c *gin.Context) {
	h.create(c, model.RootDiscussion)
}

// CreateForPrediction 在预测市场下发表评论
// POST /api/v1/predictions/:id/comments
func (h *CommentHandler) CreateForPrediction(c *gin.Context) {
	h.create(c, model.RootPrediction)
}

// StatsForDiscussion 讨论的评论统计
// GET /api/v1/discussions/:id/comments/stats
func (h *CommentHandler) StatsForDiscussion(c *gin.Context) {
	h.stats(c, model.RootDiscussion)
}

// StatsForPrediction 预测市场的评论统计
// GET /api/v1/predictions/:id/comments/stats
func (h *CommentHandler) StatsForPrediction(c *gin.Context) {
	h.stats(c, model.RootPrediction)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(userID, commentID); err != nil {
		switch err {
		case service.ErrCommentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotCommentAuthor:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, nil)
}

// Vote 对评论投票
// POST /api/v1/comments/:id/vote
func (h *CommentHandler) Vote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.VoteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.voteService.Vote(userID, commentID, req.Value)
	if err != nil {
		switch err {
		case model.ErrInvalidPolarity:
			response.ParamError(c, err.Error())
		case service.ErrCommentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrCommentDeleted:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}
