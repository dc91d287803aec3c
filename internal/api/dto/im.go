package dto

import "time"

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	TargetUserID uint64 `json:"target_user_id" binding:"required"`
	Content      string `json:"content" binding:"required,max=2000"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID             string    `json:"id,omitempty"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	ConversationID  uint64    `json:"conversation_id"`
	PeerID          uint64    `json:"peer_id"`
	LastMessageText string    `json:"last_message_text"`
	LastSenderID    uint64    `json:"last_sender_id"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int64     `json:"unread_count"`
}

// MarkAsReadReq 标记会话已读请求
type MarkAsReadReq struct {
	ConversationID uint64 `json:"conversation_id" binding:"required"`
}

// ReadReceiptDTO 已读回执推送
type ReadReceiptDTO struct {
	ConversationID uint64 `json:"conversation_id"`
	ReaderID       uint64 `json:"reader_id"`
}

// TypingDTO 输入提示（不落库，纯转发）
type TypingDTO struct {
	ConversationID uint64 `json:"conversation_id"`
	UserID         uint64 `json:"user_id"`
}

// WsErrorDTO 长连接上行操作失败时回发给发起连接的错误帧
type WsErrorDTO struct {
	Op      string `json:"op"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UnreadCountDTO 未读数响应
type UnreadCountDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
