package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var ErrShowNotFound = errors.New("节目不存在")

// ShowService 节目目录，只读。数据由运营离线导入。
type ShowService struct {
	showRepo *repository.ShowRepository
}

func NewShowService(showRepo *repository.ShowRepository) *ShowService {
	return &ShowService{showRepo: showRepo}
}

// Get 节目详情
func (s *ShowService) Get(id int64) (*model.Show, error) {
	show, err := s.showRepo.GetShow(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return show, nil
}

// List 节目列表
func (s *ShowService) List(genre, keyword string, page, pageSize int) ([]*model.Show, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.showRepo.ListShows(genre, keyword, page, pageSize)
}

// Seasons 节目下的季，节目不存在时报错
func (s *ShowService) Seasons(showID int64) ([]*model.Season, error) {
	if _, err := s.Get(showID); err != nil {
		return nil, err
	}
	return s.showRepo.ListSeasons(showID)
}

// Episodes 季下的集
func (s *ShowService) Episodes(seasonID int64) ([]*model.Episode, error) {
	if _, err := s.showRepo.GetSeason(seasonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return s.showRepo.ListEpisodes(seasonID)
}
