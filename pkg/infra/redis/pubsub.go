package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client *redis.Client
}

// NewPubSub 创建 PubSub 实例
func NewPubSub(addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PubSub{
		client: client,
	}, nil
}

// DetectionNotification 检测完成通知消息
type DetectionNotification struct {
	RequestID    string         `json:"request_id"`
	Category     string         `json:"category"`
	AnomalyCount int            `json:"anomaly_count"`
	BySeverity   map[string]int `json:"by_severity"`
	Timestamp    int64          `json:"timestamp"`
}

// PublishDetectionComplete 发布检测完成通知
// notification 一般为 *DetectionNotification
func (p *PubSub) PublishDetectionComplete(ctx context.Context, channel string, notification interface{}) error {
	return p.publish(ctx, channel, notification)
}

// PublishReminder 发布整改提醒消息
// 消息体为 business.Reminder 的 JSON 序列化结果
func (p *PubSub) PublishReminder(ctx context.Context, channel string, reminder interface{}) error {
	return p.publish(ctx, channel, reminder)
}

// publish 序列化并发布到指定频道
func (p *PubSub) publish(ctx context.Context, channel string, payload interface{}) error {
	msgJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Subscribe 订阅 Redis 频道（用于测试）
func (p *PubSub) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return p.client.Subscribe(ctx, channel)
}

// Close 关闭 Redis 连接
func (p *PubSub) Close() error {
	return p.client.Close()
}
