package net

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNetwork 超时、连接失败等没有拿到响应的错误
	ErrNetwork = errors.New("network failure")
	// ErrUnauthorized 凭证被拒绝 (401)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound 资源不存在 (404)
	ErrNotFound = errors.New("not found")
)

// APIError 归一化后的远程调用错误
// StatusCode 为 0 表示没有收到响应
type APIError struct {
	StatusCode int
	Message    string // 服务端提供的提示，可能为空
	Err        error  // 传输层原始错误
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("network failure: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api error [%d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error [%d]", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is 支持 errors.Is(err, ErrNetwork / ErrUnauthorized / ErrNotFound)
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.StatusCode == 0
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// errorBody 服务端错误响应 {"error": "..."} 或 {"message": "..."}
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newStatusError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = strings.TrimSpace(body.Error)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(body.Message)
		}
	}
	return apiErr
}

// ServerMessage 取服务端提示，没有则为空串
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// UserMessage 服务端提示优先，否则使用调用方的兜底文案
func UserMessage(err error, fallback string) string {
	if msg := ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}
