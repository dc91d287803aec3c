package middleware

import (
	"Campus/internal/pkg/security"
	"Campus/internal/service"

	"github.com/gin-gonic/gin"
)

// Presence 活跃打点中间件：任何携带 Token 的请求都刷新 last_active_at。
// 只解码不校验签名，打点失败不能影响请求，鉴权仍由 Auth 负责。
func Presence(presenceService service.PresenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if claims, err := security.DecodeUnverified(tokenString); err == nil && claims.UserID != 0 {
				presenceService.Touch(claims.UserID)
			}
		}
		c.Next()
	}
}
