package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smarthealth-state/internal/domain"
	httpapi "smarthealth-state/internal/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client smarthealth-state HTTP API 客户端（CLI 使用）
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New 创建客户端；网络错误和 502/503/504 最多重试 3 次
func New(baseURL string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return true
			}
			switch r.StatusCode() {
			case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				return true
			}
			return false
		}).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

// call 发送请求并拆开 Result 包
func call[T any](ctx context.Context, c *Client, method, path string) (T, error) {
	var (
		zero     T
		envelope httpapi.Result[T]
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&envelope).
		SetError(&envelope).
		Execute(method, path)
	if err != nil {
		c.logger.Error("API call failed", zap.String("path", path), zap.Error(err))
		return zero, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	if resp.IsError() || envelope.Code != httpapi.ResultSuccess {
		return zero, fmt.Errorf("%s %s: %s (http %d)", method, path, envelope.Message, resp.StatusCode())
	}
	return envelope.Result, nil
}

func (c *Client) UserData(ctx context.Context) (httpapi.UserDataView, error) {
	return call[httpapi.UserDataView](ctx, c, http.MethodGet, "/api/v1/userdata")
}

func (c *Client) Derived(ctx context.Context) (domain.Derived, error) {
	return call[domain.Derived](ctx, c, http.MethodGet, "/api/v1/userdata/derived")
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := call[map[string]bool](ctx, c, http.MethodPost, "/api/v1/auth/logout")
	return err
}

// ExportReport 下载 Excel 报表原始字节
func (c *Client) ExportReport(ctx context.Context) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
		Get("/api/v1/export/report.xlsx")
	if err != nil {
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download report: http %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
