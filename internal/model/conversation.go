package model

import (
	"fmt"
	"time"
)

// Conversation 单聊会话主表
type Conversation struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PeerKey string `gorm:"uniqueIndex;type:varchar(64);not null" json:"peerKey"` // uid小_uid大
	UserAID uint64 `gorm:"not null;index" json:"userAId"`                        // PeerKey 中较小的一方
	UserBID uint64 `gorm:"not null;index" json:"userBId"`                        // PeerKey 中较大的一方

	// 收件箱渲染缓存
	LastMessageText string    `gorm:"type:varchar(255)" json:"lastMessageText"`
	LastSenderID    uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMessageAt   time.Time `gorm:"index" json:"lastMessageAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

// PeerKeyOf 生成单聊唯一标识，两个 ID 排序后拼接，与参数顺序无关
func PeerKeyOf(userA, userB uint64) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d_%d", userA, userB)
}

// HasParticipant 判断用户是否是会话参与方
func (c *Conversation) HasParticipant(userID uint64) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// PeerOf 返回会话中相对 userID 的对方 ID
func (c *Conversation) PeerOf(userID uint64) uint64 {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}
