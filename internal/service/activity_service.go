package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
	"github.com/unscripted/unscripted-server/internal/model/dto"
	"github.com/unscripted/unscripted-server/internal/pkg/pubsub"
	"github.com/unscripted/unscripted-server/internal/repository"
)

var (
	ErrUserNotFound = errors.New("用户不存在")
	ErrInvalidMode  = errors.New("无效的查询模式")
)

// ActivityService 动态流。记录一经写入不可变，
// 可见性在查询时按目标用户的隐私设置现算。
type ActivityService struct {
	userRepo     *repository.UserRepository
	activityRepo *repository.ActivityRepository
	privacyRepo  *repository.PrivacyRepository
	publisher    *pubsub.Publisher
}

func NewActivityService(
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityRepository,
	privacyRepo *repository.PrivacyRepository,
	publisher *pubsub.Publisher,
) *ActivityService {
	return &ActivityService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		privacyRepo:  privacyRepo,
		publisher:    publisher,
	}
}

// Record 写入动态并推送在线通知
func (s *ActivityService) Record(record *model.ActivityRecord) error {
	if err := s.activityRepo.Create(record); err != nil {
		return err
	}
	s.Notify(record)
	return nil
}

// RecordTx 在给定事务中写入动态，推送由调用方在提交后触发
func (s *ActivityService) RecordTx(tx *gorm.DB, record *model.ActivityRecord) error {
	return s.activityRepo.CreateTx(tx, record)
}

// Notify 通过 Redis 发布动态事件，server 端订阅后经 websocket 下发。
// 推送失败不影响主流程。
func (s *ActivityService) Notify(record *model.ActivityRecord) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = s.publisher.Publish(ctx, &pubsub.ActivityEvent{
		Type:        pubsub.EventActivity,
		ActivityID:  record.ID,
		GiverID:     record.GiverID,
		RecipientID: record.RecipientID,
		Activity:    string(record.Type),
		Metadata:    record.Metadata,
	})
}

// visibleGroups 计算目标用户对外可见的动态分组。
// 未写入设置的分组缺省可见；全局开关关闭时全部不可见。
func (s *ActivityService) visibleGroups(target *model.User) (map[model.ActivityGroup]bool, error) {
	groups := map[model.ActivityGroup]bool{
		model.GroupContent:    true,
		model.GroupEngagement: true,
		model.GroupMarket:     true,
		model.GroupSocial:     true,
	}

	if !target.ActivityPublic {
		for g := range groups {
			groups[g] = false
		}
		return groups, nil
	}

	settings, err := s.privacyRepo.ListByUser(target.ID)
	if err != nil {
		return nil, err
	}
	for _, setting := range settings {
		groups[setting.Group] = setting.Visible
	}
	return groups, nil
}

// allowedTypes 将可见分组与请求方过滤条件合并为类型白名单。
// 返回 nil 表示不限制；返回空切片表示全部不可见。
func allowedTypes(visible map[model.ActivityGroup]bool, query *dto.ActivityQuery) []model.ActivityType {
	requestedGroups := make(map[model.ActivityGroup]bool)
	for _, g := range query.Groups {
		requestedGroups[model.ActivityGroup(g)] = true
	}
	requestedTypes := make(map[model.ActivityType]bool)
	for _, t := range query.Types {
		requestedTypes[model.ActivityType(t)] = true
	}

	allVisible := true
	for _, v := range visible {
		if !v {
			allVisible = false
			break
		}
	}
	if allVisible && len(requestedGroups) == 0 && len(requestedTypes) == 0 {
		return nil
	}

	types := make([]model.ActivityType, 0)
	for t, g := range model.ActivityGroups {
		if !visible[g] {
			continue
		}
		if len(requestedGroups) > 0 && !requestedGroups[g] {
			continue
		}
		if len(requestedTypes) > 0 && !requestedTypes[t] {
			continue
		}
		types = append(types, t)
	}
	return types
}

// List 查询目标用户的动态流。
// 本人可见全部；他人受全局开关与分组设置约束。
// 计数与分页列表使用同一份过滤条件，二者永远一致。
func (s *ActivityService) List(viewerID *int64, targetUserID int64, query *dto.ActivityQuery) ([]*dto.ActivityItem, int64, error) {
	target, err := s.userRepo.GetByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	var incoming bool
	switch query.Mode {
	case "", dto.ActivityModeYou:
	case dto.ActivityModeIncoming:
		incoming = true
	default:
		return nil, 0, ErrInvalidMode
	}

	isOwner := viewerID != nil && *viewerID == targetUserID

	var visible map[model.ActivityGroup]bool
	if isOwner {
		visible = map[model.ActivityGroup]bool{
			model.GroupContent:    true,
			model.GroupEngagement: true,
			model.GroupMarket:     true,
			model.GroupSocial:     true,
		}
	} else {
		visible, err = s.visibleGroups(target)
		if err != nil {
			return nil, 0, err
		}
	}

	filter := repository.ActivityFilter{
		TargetID:     targetUserID,
		Incoming:     incoming,
		AllowedTypes: allowedTypes(visible, query),
		From:         query.From,
		To:           query.To,
	}

	total, err := s.activityRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(query.Page, query.PageSize)
	records, err := s.activityRepo.List(filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ActivityItem, 0, len(records))
	for _, record := range records {
		item := &dto.ActivityItem{
			ID:            record.ID,
			Type:          string(record.Type),
			ActivityGroup: string(record.Type.GroupOf()),
			GiverID:       record.GiverID,
			RecipientID:   record.RecipientID,
			Metadata:      record.Metadata,
			CreatedAt:     record.CreatedAt.Format(time.RFC3339),
		}
		if record.Giver != nil {
			item.Giver = &dto.CommentUser{
				ID:        record.Giver.ID,
				Username:  record.Giver.Username,
				AvatarURL: record.Giver.AvatarURL,
			}
		}
		items = append(items, item)
	}
	return items, total, nil
}

// GetPrivacy 获取用户隐私设置
func (s *ActivityService) GetPrivacy(userID int64) (*dto.PrivacySettingsResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	groups := map[string]bool{
		string(model.GroupContent):    true,
		string(model.GroupEngagement): true,
		string(model.GroupMarket):     true,
		string(model.GroupSocial):     true,
	}
	settings, err := s.privacyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, setting := range settings {
		groups[string(setting.Group)] = setting.Visible
	}

	return &dto.PrivacySettingsResponse{
		ActivityPublic: user.ActivityPublic,
		Groups:         groups,
	}, nil
}

var ErrUnknownActivityGroup = errors.New("未知的动态分组")

// UpdatePrivacy 更新全局开关与分组可见性
func (s *ActivityService) UpdatePrivacy(userID int64, req *dto.UpdatePrivacyRequest) (*dto.PrivacySettingsResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.ActivityPublic != nil && *req.ActivityPublic != user.ActivityPublic {
		user.ActivityPublic = *req.ActivityPublic
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	for group, visible := range req.Groups {
		g := model.ActivityGroup(group)
		switch g {
		case model.GroupContent, model.GroupEngagement, model.GroupMarket, model.GroupSocial:
		default:
			return nil, ErrUnknownActivityGroup
		}

		err := s.privacyRepo.Upsert(&model.PrivacySetting{
			UserID:  userID,
			Group:   g,
			Visible: visible,
		})
		if err != nil {
			return nil, err
		}
	}

	return s.GetPrivacy(userID)
}

// normalizePage 页码与页大小兜底
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
