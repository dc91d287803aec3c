package dto

// PresenceDTO 单用户在线状态响应
type PresenceDTO struct {
	UserID uint64 `json:"user_id"`
	Online bool   `json:"online"`
}

// PresenceCountDTO 一组用户的在线人数响应
type PresenceCountDTO struct {
	OnlineCount int64 `json:"online_count"`
}
