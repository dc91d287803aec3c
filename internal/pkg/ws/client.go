package ws

import (
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	sendBufferSize = 64
)

// Frame 客户端上行帧
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FrameHandler 处理客户端上行操作（发消息/已读/输入提示）
type FrameHandler func(ctx context.Context, c *Client, frame *Frame)

// Client 一条已鉴权的长连接
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  uint64
	send    chan []byte
	onFrame FrameHandler
}

// NewClient 注册连接并返回 Client，调用方随后必须启动 Run
func NewClient(hub *Hub, conn *websocket.Conn, userID uint64, onFrame FrameHandler) *Client {
	c := &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, sendBufferSize),
		onFrame: onFrame,
	}
	hub.register(c)
	return c
}

// UserID 连接归属的用户
func (c *Client) UserID() uint64 {
	return c.userID
}

// Send 仅向本连接推送一个事件，上行操作的错误回执用
func (c *Client) Send(event string, payload interface{}) {
	data, err := json.Marshal(&Event{Type: event, Data: payload})
	if err != nil {
		log.Error("ws send marshal failed", "event", event, "err", err)
		return
	}
	c.enqueue(data)
}

// enqueue 非阻塞入队；慢消费者的帧直接丢弃，不拖累推送方
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn("ws send buffer full, frame dropped", "userID", c.userID)
	}
}

// Run 启动读写循环，读循环退出时连接注销并关闭
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		close(c.send)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws read error", "userID", c.userID, "err", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Warn("ws bad frame", "userID", c.userID, "err", err)
			continue
		}

		if c.onFrame != nil {
			c.onFrame(ctx, c, &frame)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
