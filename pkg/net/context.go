package net

import "context"

type skipSessionResetKey struct{}

// WithoutSessionReset 标记请求的 401 不清理本地会话
// 用于登录、注册：密码错误不能把已有会话踢掉
func WithoutSessionReset(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipSessionResetKey{}, true)
}

func sessionResetSkipped(ctx context.Context) bool {
	v, _ := ctx.Value(skipSessionResetKey{}).(bool)
	return v
}
