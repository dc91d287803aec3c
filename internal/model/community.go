package model

import "time"

// Community 社区表（社区管理在外部服务，这里只做通知侧的名称补全与群主定位）
type Community struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	OwnerID   uint64    `gorm:"not null;index" json:"ownerId"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Community) TableName() string {
	return "communities"
}
