package dto

// NotificationDTO 通知列表项响应
type NotificationDTO struct {
	ID            string `json:"id"`
	Type          int8   `json:"type"`
	RecipientID   uint64 `json:"recipient_id"`
	ActorID       uint64 `json:"actor_id,omitempty"`
	ActorName     string `json:"actor_name,omitempty"`
	PostID        uint64 `json:"post_id,omitempty"`
	PostTitle     string `json:"post_title,omitempty"`
	CommentID     uint64 `json:"comment_id,omitempty"`
	CommunityID   uint64 `json:"community_id,omitempty"`
	CommunityName string `json:"community_name,omitempty"`
	IsRead        bool   `json:"is_read"`
	CreatedAt     string `json:"created_at"`
}

// NotificationPageDTO 通知分页响应
type NotificationPageDTO struct {
	List        []*NotificationDTO `json:"list"`
	Total       int64              `json:"total"`
	UnreadCount int64              `json:"unread_count"`
}

// NotificationReadReq 标记单条通知已读请求
type NotificationReadReq struct {
	ID string `json:"id" binding:"required"`
}
