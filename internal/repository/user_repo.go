package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByGithubID 根据 GitHub ID 获取用户
func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByVerificationCode 根据验证码获取用户
func (r *UserRepository) GetByVerificationCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("verification_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail 检查邮箱是否已注册
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByUsername 检查用户名是否已使用
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Update 保存用户
func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// GetByIDs 批量获取用户
func (r *UserRepository) GetByIDs(ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []*model.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// ClearExpiredVerificationCodes 清理过期验证码
func (r *UserRepository) ClearExpiredVerificationCodes(now time.Time) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("verification_code IS NOT NULL AND verification_expires_at < ?", now).
		Updates(map[string]interface{}{
			"verification_code":       nil,
			"verification_expires_at": nil,
		})
	return result.RowsAffected, result.Error
}

// ListIDs 返回全部用户 ID（供离线重算使用）
func (r *UserRepository) ListIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.User{}).Pluck("id", &ids).Error
	return ids, err
}
