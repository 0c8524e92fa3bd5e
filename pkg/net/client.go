package net

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout 所有请求的绝对超时
const DefaultTimeout = 30 * time.Second

// CredentialStore 提供 Bearer 凭证，401 时由传输层清空
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Config 传输层配置
type Config struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client 远程 REST API 的统一出口
// 职责：附加凭证、请求 ID、统一超时、错误归一化、401 清理会话
type Client struct {
	rc     *resty.Client
	creds  CredentialStore
	logger *zap.Logger
}

// RequestOption 定制单个请求
type RequestOption func(r *resty.Request)

// NewClient 创建传输层
// creds 可以为 nil (匿名访问)
func NewClient(cfg Config, creds CredentialStore, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetDebug(cfg.Debug).
		SetLogger(logger.Sugar()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "nhv-landlord-client/1.0")

	c := &Client{
		rc:     rc,
		creds:  creds,
		logger: logger,
	}
	rc.OnBeforeRequest(c.beforeRequest)
	rc.OnAfterResponse(c.afterResponse)
	return c
}

// Do 发送请求，非 2xx 与网络错误统一返回 *APIError
func (c *Client) Do(ctx context.Context, method, path string, opts ...RequestOption) error {
	req := c.rc.R().
		SetContext(ctx).
		SetError(&errorBody{})
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("[APIClient] 请求失败",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &APIError{Err: err}
	}

	if resp.IsError() {
		apiErr := newStatusError(resp)
		c.logger.Debug("[APIClient] 服务端拒绝请求",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}
	return nil
}

// ==================== 请求选项 ====================

// WithResult 2xx 响应解析到 v
func WithResult(v interface{}) RequestOption {
	return func(r *resty.Request) { r.SetResult(v) }
}

// WithJSON JSON 请求体
func WithJSON(body interface{}) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
}

// WithQuery 查询参数
func WithQuery(params map[string]string) RequestOption {
	return func(r *resty.Request) { r.SetQueryParams(params) }
}

// WithPathParam 路径参数 ({name} 占位符，自动转义)
func WithPathParam(name, value string) RequestOption {
	return func(r *resty.Request) { r.SetPathParam(name, value) }
}

// ==================== 钩子 ====================

// beforeRequest 附加请求 ID 与 Bearer 凭证
func (c *Client) beforeRequest(_ *resty.Client, r *resty.Request) error {
	r.SetHeader("X-Request-ID", uuid.NewString())

	if c.creds == nil {
		return nil
	}
	token, err := c.creds.Token(r.Context())
	if err != nil {
		// 读本地存储失败按匿名请求处理，由服务端决定是否拒绝
		c.logger.Warn("[APIClient] 读取本地凭证失败", zap.Error(err))
		return nil
	}
	if token != "" {
		r.SetAuthToken(token)
	}
	return nil
}

// afterResponse 凭证被拒绝时清空本地会话
func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized || c.creds == nil {
		return nil
	}
	ctx := resp.Request.Context()
	if sessionResetSkipped(ctx) {
		return nil
	}
	if err := c.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("[APIClient] 清除本地会话失败", zap.Error(err))
		return nil
	}
	c.logger.Info("[APIClient] 凭证已失效，本地会话已清除")
	return nil
}
