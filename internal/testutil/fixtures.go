package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/unscripted/unscripted-server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:       fmt.Sprintf("testuser_%d", seq),
		Email:          &email,
		PasswordHash:   &passwordHash,
		Points:         1000,
		ActivityPublic: true,
		EmailVerified:  true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithPoints 设置积分余额
func WithPoints(points int64) func(*model.User) {
	return func(u *model.User) {
		u.Points = points
	}
}

// WithActivityPrivate 关闭动态全局可见开关
func WithActivityPrivate() func(*model.User) {
	return func(u *model.User) {
		u.ActivityPublic = false
	}
}

// TestShow 创建测试节目
func TestShow(t *testing.T, db *gorm.DB, opts ...func(*model.Show)) *model.Show {
	t.Helper()

	show := &model.Show{
		Title:   fmt.Sprintf("Test Show %d", nextSeq()),
		Network: "Test Network",
		Genre:   "competition",
	}

	for _, opt := range opts {
		opt(show)
	}

	if err := db.Create(show).Error; err != nil {
		t.Fatalf("Failed to create test show: %v", err)
	}

	return show
}

// TestSeason 创建测试季
func TestSeason(t *testing.T, db *gorm.DB, showID int64) *model.Season {
	t.Helper()

	season := &model.Season{
		ShowID: showID,
		Number: 1,
		Title:  "Season 1",
	}

	if err := db.Create(season).Error; err != nil {
		t.Fatalf("Failed to create test season: %v", err)
	}

	return season
}

// TestEpisode 创建测试集
func TestEpisode(t *testing.T, db *gorm.DB, seasonID int64) *model.Episode {
	t.Helper()

	episode := &model.Episode{
		SeasonID: seasonID,
		Number:   1,
		Title:    "Episode 1",
	}

	if err := db.Create(episode).Error; err != nil {
		t.Fatalf("Failed to create test episode: %v", err)
	}

	return episode
}

// TestDiscussion 创建测试讨论帖
func TestDiscussion(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Discussion)) *model.Discussion {
	t.Helper()

	discussion := &model.Discussion{
		UserID: userID,
		Title:  fmt.Sprintf("Test Discussion %d", nextSeq()),
		Body:   "discussion body",
	}

	for _, opt := range opts {
		opt(discussion)
	}

	if err := db.Create(discussion).Error; err != nil {
		t.Fatalf("Failed to create test discussion: %v", err)
	}

	return discussion
}

// TestPrediction 创建测试预测市场
func TestPrediction(t *testing.T, db *gorm.DB, creatorID, episodeID int64, opts ...func(*model.Prediction)) *model.Prediction {
	t.Helper()

	prediction := &model.Prediction{
		CreatorID: creatorID,
		EpisodeID: episodeID,
		Question:  fmt.Sprintf("Will contestant %d survive?", nextSeq()),
		Status:    model.MarketOpen,
		ClosesAt:  time.Now().Add(24 * time.Hour),
	}

	for _, opt := range opts {
		opt(prediction)
	}

	if err := db.Create(prediction).Error; err != nil {
		t.Fatalf("Failed to create test prediction: %v", err)
	}

	return prediction
}

// WithMarketStatus 设置市场状态
func WithMarketStatus(status string) func(*model.Prediction) {
	return func(p *model.Prediction) {
		p.Status = status
	}
}

// WithClosesAt 设置截止时间
func WithClosesAt(closesAt time.Time) func(*model.Prediction) {
	return func(p *model.Prediction) {
		p.ClosesAt = closesAt
	}
}

// TestComment 创建讨论下的顶层测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, discussionID int64, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:       userID,
		DiscussionID: &discussionID,
		Content:      fmt.Sprintf("test comment %d", nextSeq()),
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建回复，继承父评论的根实体
func TestReply(t *testing.T, db *gorm.DB, userID int64, parent *model.Comment, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:       userID,
		DiscussionID: parent.DiscussionID,
		PredictionID: parent.PredictionID,
		ParentID:     &parent.ID,
		Depth:        parent.Depth + 1,
		Content:      fmt.Sprintf("test reply %d", nextSeq()),
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// WithContent 设置评论内容
func WithContent(content string) func(*model.Comment) {
	return func(c *model.Comment) {
		c.Content = content
	}
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(createdAt time.Time) func(*model.Comment) {
	return func(c *model.Comment) {
		c.CreatedAt = createdAt
	}
}

// TestVote 创建评论投票
func TestVote(t *testing.T, db *gorm.DB, commentID, userID int64, value model.VotePolarity) *model.CommentVote {
	t.Helper()

	vote := &model.CommentVote{
		CommentID: commentID,
		UserID:    userID,
		Value:     value,
	}

	if err := db.Create(vote).Error; err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return vote
}

// SeedVotes 给评论批量灌票
func SeedVotes(t *testing.T, db *gorm.DB, commentID int64, upvotes, downvotes int) {
	t.Helper()

	for i := 0; i < upvotes; i++ {
		voter := TestUser(t, db)
		TestVote(t, db, commentID, voter.ID, model.VoteUp)
	}
	for i := 0; i < downvotes; i++ {
		voter := TestUser(t, db)
		TestVote(t, db, commentID, voter.ID, model.VoteDown)
	}
}

// TestActivity 创建动态记录
func TestActivity(t *testing.T, db *gorm.DB, giverID, recipientID int64, activityType model.ActivityType, opts ...func(*model.ActivityRecord)) *model.ActivityRecord {
	t.Helper()

	record := &model.ActivityRecord{
		GiverID:     giverID,
		RecipientID: recipientID,
		Type:        activityType,
	}

	for _, opt := range opts {
		opt(record)
	}

	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to create test activity: %v", err)
	}

	return record
}

// WithActivityCreatedAt 设置动态创建时间
func WithActivityCreatedAt(createdAt time.Time) func(*model.ActivityRecord) {
	return func(a *model.ActivityRecord) {
		a.CreatedAt = createdAt
	}
}

// TestPrivacySetting 创建分组隐私设置
func TestPrivacySetting(t *testing.T, db *gorm.DB, userID int64, group model.ActivityGroup, visible bool) *model.PrivacySetting {
	t.Helper()

	setting := &model.PrivacySetting{
		UserID:  userID,
		Group:   group,
		Visible: visible,
	}

	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("Failed to create test privacy setting: %v", err)
	}

	return setting
}

// TestPoll 创建测试投票及选项
func TestPoll(t *testing.T, db *gorm.DB, userID, showID int64, labels ...string) *model.Poll {
	t.Helper()

	if len(labels) == 0 {
		labels = []string{"Option A", "Option B"}
	}

	poll := &model.Poll{
		UserID:   userID,
		ShowID:   showID,
		Question: fmt.Sprintf("Test Poll %d", nextSeq()),
	}
	for _, label := range labels {
		poll.Options = append(poll.Options, &model.PollOption{Label: label})
	}

	if err := db.Create(poll).Error; err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return poll
}
