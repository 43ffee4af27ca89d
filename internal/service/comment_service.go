package service

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/ranking"
	"github.com/unscripted/unscripted-server/internal/repository"
)

// 排序方式
const (
	SortNew  = "new"  // 创建时间倒序
	SortTop  = "top"  // 净得分倒序
	SortBest = "best" // Wilson 置信下界倒序
)

var (
	ErrRootEntityNotFound = errors.New("评论目标不存在")
	ErrParentNotFound     = errors.New("父评论不存在")
	ErrParentMismatch     = errors.New("父评论不属于该评论目标")
	ErrNestingTooDeep     = errors.New("评论嵌套超出层级上限")
	ErrCommentNotFound    = errors.New("评论不存在")
	ErrNotCommentAuthor   = errors.New("只有作者可以删除评论")
	ErrInvalidSort        = errors.New("无效的排序方式")
)

// CommentService 评论树。投票计数不落库，渲染时按票仓现算，
// 排序键（净得分 / Wilson 下界）同样为派生值。
type CommentService struct {
	db             *gorm.DB
	commentRepo    *repository.CommentRepository
	voteRepo       *repository.VoteRepository
	discussionRepo *repository.DiscussionRepository
	predictionRepo *repository.PredictionRepository
	activitySvc    *ActivityService
	pointsSvc      *PointsService
}

func NewCommentService(
	db *gorm.DB,
	commentRepo *repository.CommentRepository,
	voteRepo *repository.VoteRepository,
	discussionRepo *repository.DiscussionRepository,
	predictionRepo *repository.PredictionRepository,
	activitySvc *ActivityService,
	pointsSvc *PointsService,
) *CommentService {
	return &CommentService{
		db:             db,
		commentRepo:    commentRepo,
		voteRepo:       voteRepo,
		discussionRepo: discussionRepo,
		predictionRepo: predictionRepo,
		activitySvc:    activitySvc,
		pointsSvc:      pointsSvc,
	}
}

// resolveRootOwner 校验根实体存在并返回其作者
func (s *CommentService) resolveRootOwner(root model.CommentRoot) (int64, error) {
	switch root.Kind {
	case model.RootDiscussion:
		discussion, err := s.discussionRepo.GetByID(root.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrRootEntityNotFound
			}
			return 0, err
		}
		return discussion.UserID, nil
	case model.RootPrediction:
		prediction, err := s.predictionRepo.GetByID(root.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrRootEntityNotFound
			}
			return 0, err
		}
		return prediction.CreatorID, nil
	default:
		return 0, ErrRootEntityNotFound
	}
}

// matchesRoot 检查评论是否挂在给定根实体下
func matchesRoot(comment *model.Comment, root model.CommentRoot) bool {
	switch root.Kind {
	case model.RootDiscussion:
		return comment.DiscussionID != nil && *comment.DiscussionID == root.ID
	case model.RootPrediction:
		return comment.PredictionID != nil && *comment.PredictionID == root.ID
	default:
		return false
	}
}

// Add 发表评论或回复。评论行与动态记录同事务写入，提交后再触发在线推送。
// 动态接收者始终是根实体作者；发评论本身不加积分。
func (s *CommentService) Add(userID int64, root model.CommentRoot, req *dto.CreateCommentRequest) (*dto.CommentNode, error) {
	rootOwnerID, err := s.resolveRootOwner(root)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:  userID,
		Content: req.Content,
	}
	switch root.Kind {
	case model.RootDiscussion:
		comment.DiscussionID = &root.ID
	case model.RootPrediction:
		comment.PredictionID = &root.ID
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if !matchesRoot(parent, root) {
			return nil, ErrParentMismatch
		}
		if parent.Depth+1 > model.MaxCommentDepth {
			return nil, ErrNestingTooDeep
		}
		comment.ParentID = &parent.ID
		comment.Depth = parent.Depth + 1
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"root_kind": string(root.Kind),
		"root_id":   root.ID,
	})
	record := &model.ActivityRecord{
		GiverID:     userID,
		RecipientID: rootOwnerID,
		Type:        model.ActivityCommentAdded,
		Metadata:    string(metadata),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.CreateTx(tx, comment); err != nil {
			return err
		}
		return s.activitySvc.RecordTx(tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.activitySvc.Notify(record)

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	node := buildNode(created, repository.VoteTally{}, nil, &userID)
	return node, nil
}

// Delete 软删除评论。行保留以维持子树结构，
// 渲染时对作者以外的查看者隐藏内容与作者信息。
func (s *CommentService) Delete(userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentAuthor
	}
	return s.commentRepo.SoftDelete(commentID)
}

// Stats 根实体的评论统计
func (s *CommentService) Stats(root model.CommentRoot) (*dto.CommentStats, error) {
	if _, err := s.resolveRootOwner(root); err != nil {
		return nil, err
	}

	topLevel, err := s.commentRepo.CountTopLevel(root)
	if err != nil {
		return nil, err
	}
	replies, err := s.commentRepo.CountReplies(root)
	if err != nil {
		return nil, err
	}
	return &dto.CommentStats{TopLevelCount: topLevel, ReplyCount: replies}, nil
}

// Tree 组装评论树。锚点层（顶层，或 ParentID 指定评论的直接子层）全量取出后
// 在内存排序再分页；其下逐层批量取出，最多展开 MaxDepth 层，更深的回复
// 由调用方带 ParentID 重新查询。票数与请求者投票一次性批查。
func (s *CommentService) Tree(viewerID *int64, root model.CommentRoot, query *dto.CommentTreeQuery) ([]*dto.CommentNode, int64, error) {
	sortMode := query.Sort
	switch sortMode {
	case "", SortNew, SortTop, SortBest:
	default:
		return nil, 0, ErrInvalidSort
	}
	if sortMode == "" {
		sortMode = SortBest
	}

	page, pageSize := normalizePage(query.Page, query.PageSize)

	maxDepth := query.MaxDepth
	if maxDepth < 0 || maxDepth > model.MaxCommentDepth {
		maxDepth = model.MaxCommentDepth
	}

	if _, err := s.resolveRootOwner(root); err != nil {
		return nil, 0, err
	}

	var anchor []*model.Comment
	var err error
	if query.ParentID != nil {
		parent, err := s.commentRepo.GetByID(*query.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrParentNotFound
			}
			return nil, 0, err
		}
		if !matchesRoot(parent, root) {
			return nil, 0, ErrParentMismatch
		}
		anchor, err = s.commentRepo.ListChildren([]int64{parent.ID})
		if err != nil {
			return nil, 0, err
		}
	} else {
		anchor, err = s.commentRepo.ListTopLevel(root)
		if err != nil {
			return nil, 0, err
		}
	}

	all := make([]*model.Comment, 0, len(anchor))
	all = append(all, anchor...)

	// 逐层下钻，超出 maxDepth 的层级不取
	frontier := anchor
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		parentIDs := make([]int64, 0, len(frontier))
		for _, c := range frontier {
			parentIDs = append(parentIDs, c.ID)
		}
		children, err := s.commentRepo.ListChildren(parentIDs)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, children...)
		frontier = children
	}

	ids := make([]int64, 0, len(all))
	for _, c := range all {
		ids = append(ids, c.ID)
	}

	tallies, err := s.voteRepo.TallyByCommentIDs(ids)
	if err != nil {
		return nil, 0, err
	}

	var viewerVotes map[int64]model.VotePolarity
	if viewerID != nil {
		viewerVotes, err = s.voteRepo.UserVotesByCommentIDs(*viewerID, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	nodes := make(map[int64]*dto.CommentNode, len(all))
	for _, c := range all {
		var userVote *model.VotePolarity
		if v, ok := viewerVotes[c.ID]; ok {
			userVote = &v
		}
		nodes[c.ID] = buildNode(c, tallies[c.ID], userVote, viewerID)
	}

	isAnchor := func(c *model.Comment) bool {
		if query.ParentID != nil {
			return c.ParentID != nil && *c.ParentID == *query.ParentID
		}
		return c.ParentID == nil
	}

	roots := make([]*dto.CommentNode, 0, len(anchor))
	for _, c := range all {
		node := nodes[c.ID]
		if isAnchor(c) {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}

	sortForest(roots, sortMode)

	total := int64(len(roots))
	start := (page - 1) * pageSize
	if start >= len(roots) {
		return []*dto.CommentNode{}, total, nil
	}
	end := start + pageSize
	if end > len(roots) {
		end = len(roots)
	}
	return roots[start:end], total, nil
}

// buildNode 渲染单个评论节点。已删除评论对外隐藏内容与作者，作者本人仍可见原文
func buildNode(c *model.Comment, tally repository.VoteTally, userVote *model.VotePolarity, viewerID *int64) *dto.CommentNode {
	node := &dto.CommentNode{
		ID:          c.ID,
		Content:     c.Content,
		ParentID:    c.ParentID,
		Depth:       c.Depth,
		Deleted:     c.IsDeleted,
		Upvotes:     tally.Upvotes,
		Downvotes:   tally.Downvotes,
		Score:       ranking.NetScore(tally.Upvotes, tally.Downvotes),
		WilsonScore: ranking.WilsonLowerBound(tally.Upvotes, tally.Downvotes),
		Replies:     []*dto.CommentNode{},
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.IsDeleted && (viewerID == nil || *viewerID != c.UserID) {
		node.Content = ""
		return node
	}
	if c.User != nil {
		node.User = &dto.CommentUser{
			ID:        c.User.ID,
			Username:  c.User.Username,
			AvatarURL: c.User.AvatarURL,
		}
	}
	if userVote != nil {
		value := string(*userVote)
		node.UserVote = &value
	}
	return node
}

// sortForest 对每一层应用同一排序方式
func sortForest(nodes []*dto.CommentNode, sortMode string) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		switch sortMode {
		case SortTop:
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		case SortBest:
			if a.WilsonScore != b.WilsonScore {
				return a.WilsonScore > b.WilsonScore
			}
		}
		// new 以及同分兜底：时间倒序，再按 ID 倒序保证稳定
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID > b.ID
	})

	for _, node := range nodes {
		if len(node.Replies) > 0 {
			sortForest(node.Replies, sortMode)
		}
	}
}
