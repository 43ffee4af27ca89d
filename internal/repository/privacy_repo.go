package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unscripted/unscripted-server/internal/model"
)

type PrivacyRepository struct {
	db *gorm.DB
}

func NewPrivacyRepository(db *gorm.DB) *PrivacyRepository {
	return &PrivacyRepository{db: db}
}

// ListByUser 获取用户全部分组隐私设置，未写入的分组缺省可见
func (r *PrivacyRepository) ListByUser(userID int64) ([]*model.PrivacySetting, error) {
	var settings []*model.PrivacySetting
	err := r.db.Where("user_id = ?", userID).Find(&settings).Error
	return settings, err
}

// Upsert 写入或覆盖分组隐私设置
func (r *PrivacyRepository) Upsert(setting *model.PrivacySetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "group"}},
		DoUpdates: clause.AssignmentColumns([]string{"visible", "updated_at"}),
	}).Create(setting).Error
}
