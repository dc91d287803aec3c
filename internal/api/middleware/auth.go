package middleware

import (
	"Campus/internal/api/dto"
	"Campus/internal/pkg/consts"
	"Campus/internal/pkg/redis"
	"Campus/internal/pkg/security"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Auth 鉴权中间件：校验 Bearer Token，注入 user_id。
// 已吊销的 Token（登出后）按签名在 Redis 中标记，命中即拒绝。
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "未提供有效的 Token")
			return
		}

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token 格式不正确")
			return
		}
		if v, err := redis.GetValue(c.Request.Context(), consts.TokenRevokedKey+signature); err == nil && v != "" {
			abortUnauthorized(c, "Token 已失效")
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token 无效或已过期")
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// extractToken 依次尝试 Authorization 头与 token 查询参数（WebSocket 握手用后者）
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &dto.Response{
		Code:    http.StatusUnauthorized,
		Message: msg,
	})
}
