package api

import (
	"Campus/internal/api/middleware"
	"Campus/internal/pkg/logger"
	"Campus/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, presenceService service.PresenceService) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS & 活跃打点
	r.Use(middleware.Trace())
	r.Use(middleware.CORS())
	r.Use(middleware.Presence(presenceService))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// 长连接入口，鉴权在握手里完成
		apiGroup.GET("/ws", group.WsHandler.Connect)

		imGroup := apiGroup.Group("/im")
		{
			imGroup.Use(middleware.Auth())
			{
				imGroup.POST("/message", group.IMHandler.SendMessage)
				imGroup.GET("/history", group.IMHandler.GetChatHistory)
				imGroup.GET("/conversations", group.IMHandler.GetConversationList)
				imGroup.POST("/read", group.IMHandler.MarkAsRead)
				imGroup.GET("/unread/count", group.IMHandler.GetUnreadCount)
			}
		}

		notifyGroup := apiGroup.Group("/notification")
		{
			notifyGroup.Use(middleware.Auth())
			{
				notifyGroup.GET("/list", group.NotificationHandler.List)
				notifyGroup.GET("/unread/count", group.NotificationHandler.GetUnreadCount)
				notifyGroup.POST("/read", group.NotificationHandler.MarkRead)
				notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
				notifyGroup.DELETE("/:id", group.NotificationHandler.Delete)
			}
		}

		presenceGroup := apiGroup.Group("/presence")
		{
			presenceGroup.Use(middleware.Auth())
			{
				presenceGroup.GET("/online/count", group.PresenceHandler.GetOnlineCount)
				presenceGroup.GET("/:user_id", group.PresenceHandler.GetPresence)
			}
		}
	}

	return r
}
