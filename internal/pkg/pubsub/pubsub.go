package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelActivityEvents = "activity_events"
)

// ActivityEvent 跨进程动态事件，server 订阅后经 websocket 推给接收者
type ActivityEvent struct {
	Type        string `json:"type"`
	ActivityID  int64  `json:"activity_id,omitempty"`
	GiverID     int64  `json:"giver_id"`
	RecipientID int64  `json:"recipient_id"`
	Activity    string `json:"activity"` // 动态类型标签
	Metadata    string `json:"metadata,omitempty"`
	Amount      int64  `json:"amount,omitempty"` // 派彩金额，仅结算事件使用
}

// 事件种类
const (
	EventActivity = "activity"
	EventPayout   = "payout"
)

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布动态事件
func (p *Publisher) Publish(ctx context.Context, event *ActivityEvent) error {
	if event.Type == "" {
		event.Type = EventActivity
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	return p.client.Publish(ctx, ChannelActivityEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅动态事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*ActivityEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelActivityEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event ActivityEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
