package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message MongoDB 消息明细模型
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID uint64             `bson:"conversation_id" json:"conversationId"` // 关联 MySQL 的会话 ID
	SenderID       uint64             `bson:"sender_id" json:"senderId"`
	Content        string             `bson:"content" json:"content"`
	IsRead         bool               `bson:"is_read" json:"isRead"` // 对方是否已读
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}
