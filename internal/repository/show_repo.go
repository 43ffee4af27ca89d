package repository

import (
	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

type ShowRepository struct {
	db *gorm.DB
}

func NewShowRepository(db *gorm.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// GetShow 根据 ID 获取节目
func (r *ShowRepository) GetShow(id int64) (*model.Show, error) {
	var show model.Show
	err := r.db.Where("id = ?", id).First(&show).Error
	if err != nil {
		return nil, err
	}
	return &show, nil
}

// ListShows 分页查询节目，支持按类型过滤与标题搜索
func (r *ShowRepository) ListShows(genre, keyword string, page, pageSize int) ([]*model.Show, int64, error) {
	q := r.db.Model(&model.Show{})
	if genre != "" {
		q = q.Where("genre = ?", genre)
	}
	if keyword != "" {
		q = q.Where("title LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shows []*model.Show
	err := q.Order("title ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&shows).Error
	return shows, total, err
}

// GetSeason 根据 ID 获取季
func (r *ShowRepository) GetSeason(id int64) (*model.Season, error) {
	var season model.Season
	err := r.db.Where("id = ?", id).First(&season).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// ListSeasons 获取节目下全部季
func (r *ShowRepository) ListSeasons(showID int64) ([]*model.Season, error) {
	var seasons []*model.Season
	err := r.db.Where("show_id = ?", showID).Order("number ASC").Find(&seasons).Error
	return seasons, err
}

// GetEpisode 根据 ID 获取集
func (r *ShowRepository) GetEpisode(id int64) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.Where("id = ?", id).First(&episode).Error
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// ListEpisodes 获取季下全部集
func (r *ShowRepository) ListEpisodes(seasonID int64) ([]*model.Episode, error) {
	var episodes []*model.Episode
	err := r.db.Where("season_id = ?", seasonID).Order("number ASC").Find(&episodes).Error
	return episodes, err
}
