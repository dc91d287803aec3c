package model

import "time"

// Post 帖子表（内容写路径在外部服务，这里只做通知侧的标题补全与作者定位）
type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Post) TableName() string {
	return "posts"
}
