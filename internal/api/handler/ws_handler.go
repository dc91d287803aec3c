package handler

import (
	"Campus/internal/api/dto"
	"Campus/internal/pkg/consts"
	"Campus/internal/pkg/security"
	"Campus/internal/pkg/ws"
	"Campus/internal/service"
	"context"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	hub       *ws.Hub
	imService service.IMService
}

func NewWsHandler(hub *ws.Hub, imService service.IMService) *WsHandler {
	return &WsHandler{hub: hub, imService: imService}
}

// Connect 建立长连接。鉴权失败不回任何负载，直接断开。
func (s *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		auth := c.GetHeader("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			token = auth[7:]
		}
	}
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}

	client := ws.NewClient(s.hub, conn, userID, s.dispatch)
	client.Run(context.Background())
}

// dispatch 处理客户端上行帧，未知操作类型静默忽略
func (s *WsHandler) dispatch(ctx context.Context, c *ws.Client, frame *ws.Frame) {
	switch frame.Type {
	case consts.OpSendMessage:
		var req dto.SendMessageReq
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			log.Warn("WS 发消息帧解析失败", "userID", c.UserID(), "err", err)
			sendError(c, consts.OpSendMessage, service.ErrParamInvalid)
			return
		}
		// 回显跳过发起连接本身
		if _, err := s.imService.SendMessage(ctx, c.UserID(), &req, c); err != nil {
			log.Warn("WS 发消息失败", "userID", c.UserID(), "err", err)
			sendError(c, consts.OpSendMessage, err)
		}
	case consts.OpMarkRead:
		var req dto.MarkAsReadReq
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			return
		}
		if err := s.imService.MarkAsRead(ctx, c.UserID(), req.ConversationID); err != nil {
			log.Warn("WS 标记已读失败", "userID", c.UserID(), "err", err)
			sendError(c, consts.OpMarkRead, err)
		}
	case consts.OpTyping:
		var req dto.TypingDTO
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			return
		}
		s.imService.Typing(ctx, c.UserID(), req.ConversationID)
	default:
		log.Debug("WS 未知操作类型", "type", frame.Type, "userID", c.UserID())
	}
}

// sendError 把上行操作的拒绝原因回发给发起连接，其余在线连接不感知
func sendError(c *ws.Client, op string, err error) {
	code, ok := service.ErrorMap[err]
	if !ok {
		code = service.InternalServerError
		err = service.UnExpectedError
	}
	c.Send(consts.EventError, dto.WsErrorDTO{Op: op, Code: code, Message: err.Error()})
}
