package repository

import (
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// CreateTx 在给定事务中创建评论
func (r *CommentRepository) CreateTx(tx *gorm.DB, comment *model.Comment) error {
	return tx.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// byRoot 按评论挂载的根实体过滤
func (r *CommentRepository) byRoot(q *gorm.DB, root model.CommentRoot) *gorm.DB {
	switch root.Kind {
	case model.RootPrediction:
		return q.Where("prediction_id = ?", root.ID)
	default:
		return q.Where("discussion_id = ?", root.ID)
	}
}

// ListTopLevel 获取根实体下全部顶层评论（排序在服务层完成）
func (r *CommentRepository) ListTopLevel(root model.CommentRoot) ([]*model.Comment, error) {
	var comments []*model.Comment
	q := r.byRoot(r.db.Preload("User"), root)
	err := q.Where("parent_id IS NULL").Find(&comments).Error
	return comments, err
}

// ListChildren 批量获取给定父评论的全部子评论
func (r *CommentRepository) ListChildren(parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("parent_id IN ?", parentIDs).
		Find(&comments).Error
	return comments, err
}

// CountTopLevel 统计根实体下顶层评论数
func (r *CommentRepository) CountTopLevel(root model.CommentRoot) (int64, error) {
	var count int64
	q := r.byRoot(r.db.Model(&model.Comment{}), root)
	err := q.Where("parent_id IS NULL").Count(&count).Error
	return count, err
}

// CountReplies 统计根实体下回复数（非顶层）
func (r *CommentRepository) CountReplies(root model.CommentRoot) (int64, error) {
	var count int64
	q := r.byRoot(r.db.Model(&model.Comment{}), root)
	err := q.Where("parent_id IS NOT NULL").Count(&count).Error
	return count, err
}

// SoftDelete 软删除评论，保留行以维持子树结构。
// 内容不清空，渲染层对作者以外的查看者隐藏
func (r *CommentRepository) SoftDelete(id int64) error {
	return r.db.Model(&model.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
