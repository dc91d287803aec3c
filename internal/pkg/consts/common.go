package consts

const (
	// MessagePreviewLen 会话列表中最后一条消息的预览长度（按字符截断）
	MessagePreviewLen = 64
)

// 通知类型
const (
	NotifyTypeLike          int8 = 1 // 帖子点赞
	NotifyTypeComment       int8 = 2 // 帖子评论
	NotifyTypeFollow        int8 = 3 // 被关注
	NotifyTypeNewPost       int8 = 4 // 关注的人发帖
	NotifyTypeMention       int8 = 5 // 被@提及
	NotifyTypeCommunityJoin int8 = 6 // 社区新成员加入
)

// WebSocket 推送事件类型
const (
	EventNewMessage      = "new_message"      // 新消息送达
	EventMessageEcho     = "message_echo"     // 发送回显（同账号其他端）
	EventNewNotification = "new_notification" // 新通知
	EventTyping          = "typing"           // 对方正在输入
	EventReadReceipt     = "read_receipt"     // 已读回执
	EventError           = "error"            // 上行操作失败回执，仅发起连接可见
)

// WebSocket 客户端上行操作类型
const (
	OpSendMessage = "send_message"
	OpMarkRead    = "mark_read"
	OpTyping      = "typing"
)
