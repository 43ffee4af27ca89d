package service

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var ErrWatchlistNotFound = errors.New("追剧条目不存在")

type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
	showRepo      *repository.ShowRepository
	activitySvc   *ActivityService
}

func NewWatchlistService(
	watchlistRepo *repository.WatchlistRepository,
	showRepo *repository.ShowRepository,
	activitySvc *ActivityService,
) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		showRepo:      showRepo,
		activitySvc:   activitySvc,
	}
}

// Add 加入片单或更新状态
func (s *WatchlistService) Add(userID int64, req *dto.AddWatchlistRequest) (*dto.WatchlistEntry, error) {
	if _, err := s.showRepo.GetShow(req.ShowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.WatchStatusPlanned
	}

	existed, err := s.watchlistRepo.Exists(userID, req.ShowID)
	if err != nil {
		return nil, err
	}

	err = s.watchlistRepo.Upsert(&model.WatchlistItem{
		UserID: userID,
		ShowID: req.ShowID,
		Status: status,
	})
	if err != nil {
		return nil, err
	}

	// 首次加入才记动态，状态变更不刷屏
	if !existed {
		metadata, _ := json.Marshal(map[string]interface{}{"show_id": req.ShowID})
		_ = s.activitySvc.Record(&model.ActivityRecord{
			GiverID:     userID,
			RecipientID: userID,
			Type:        model.ActivityWatchlistAdded,
			Metadata:    string(metadata),
		})
	}

	item, err := s.watchlistRepo.Get(userID, req.ShowID)
	if err != nil {
		return nil, err
	}
	return s.toEntry(item)
}

// UpdateStatus 更新追剧状态
func (s *WatchlistService) UpdateStatus(userID, showID int64, req *dto.UpdateWatchlistRequest) (*dto.WatchlistEntry, error) {
	item, err := s.watchlistRepo.Get(userID, showID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWatchlistNotFound
		}
		return nil, err
	}

	item.Status = req.Status
	if err := s.watchlistRepo.Upsert(item); err != nil {
		return nil, err
	}
	return s.toEntry(item)
}

// Remove 从片单移除
func (s *WatchlistService) Remove(userID, showID int64) error {
	exists, err := s.watchlistRepo.Exists(userID, showID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrWatchlistNotFound
	}
	return s.watchlistRepo.Delete(userID, showID)
}

// List 用户片单
func (s *WatchlistService) List(userID int64, status string, page, pageSize int) ([]*dto.WatchlistEntry, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	items, total, err := s.watchlistRepo.ListByUser(userID, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*dto.WatchlistEntry, 0, len(items))
	for _, item := range items {
		entry, err := s.toEntry(item)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

func (s *WatchlistService) toEntry(item *model.WatchlistItem) (*dto.WatchlistEntry, error) {
	entry := &dto.WatchlistEntry{
		ID:        item.ID,
		ShowID:    item.ShowID,
		Status:    item.Status,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}

	show := item.Show
	if show == nil {
		var err error
		show, err = s.showRepo.GetShow(item.ShowID)
		if err != nil {
			return nil, err
		}
	}
	entry.ShowTitle = show.Title
	entry.PosterURL = show.PosterURL
	return entry, nil
}
