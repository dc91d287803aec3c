package model

import (
	"time"
)

// User 用户表（注册/登录由外部服务负责，这里只维护与消息核心相关的字段）
type User struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	Nickname string `gorm:"type:varchar(50);index" json:"nickname"`

	// 各通知类型独立开关
	NotifyLikes          bool `gorm:"type:tinyint(1);default:1" json:"notifyLikes"`
	NotifyComments       bool `gorm:"type:tinyint(1);default:1" json:"notifyComments"`
	NotifyFollows        bool `gorm:"type:tinyint(1);default:1" json:"notifyFollows"`
	NotifyNewPosts       bool `gorm:"type:tinyint(1);default:1" json:"notifyNewPosts"`
	NotifyMentions       bool `gorm:"type:tinyint(1);default:1" json:"notifyMentions"`
	NotifyCommunityJoins bool `gorm:"type:tinyint(1);default:1" json:"notifyCommunityJoins"`

	// 在线状态
	ShowOnline   bool       `gorm:"type:tinyint(1);default:0" json:"showOnline"`
	LastActiveAt *time.Time `gorm:"index" json:"lastActiveAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
