package service

import (
	"Campus/internal/api/dto"
	"Campus/internal/pkg/consts"
	"Campus/internal/pkg/mongo"
	"Campus/internal/pkg/redis"
	"Campus/internal/pkg/ws"
	"Campus/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"
)

const followEdgeCacheTTL = 5 * time.Minute

// IMService 即时通讯服务接口定义
type IMService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq, origin *ws.Client) (*dto.MessageDTO, error)
	GetMessages(ctx context.Context, userID, convID uint64, limit, offset int) ([]*dto.MessageDTO, error)
	MarkAsRead(ctx context.Context, userID, convID uint64) error
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	GetUnreadTotal(ctx context.Context, userID uint64) (int64, error)
	Typing(ctx context.Context, userID, convID uint64)
}

type imServiceImpl struct {
	convRepo    repository.ConversationRepo
	messageRepo mongo.MessageRepo
	followRepo  repository.UserFollowRepo
	hub         *ws.Hub
	typingTTL   time.Duration
}

// NewIMService 构造函数
func NewIMService(
	convRepo repository.ConversationRepo,
	messageRepo mongo.MessageRepo,
	followRepo repository.UserFollowRepo,
	hub *ws.Hub,
	typingTTL time.Duration,
) IMService {
	if typingTTL <= 0 {
		typingTTL = 3 * time.Second
	}
	return &imServiceImpl{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		followRepo:  followRepo,
		hub:         hub,
		typingTTL:   typingTTL,
	}
}

// SendMessage 发送消息。前置条件：发送者已关注接收者。
// 落库成功即视为发送成功，在线推送只是增强，失败不回滚。
func (s *imServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq, origin *ws.Client) (*dto.MessageDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if req.TargetUserID == 0 || req.TargetUserID == senderID {
		return nil, ErrTargetInvalid
	}

	// 关注关系校验
	following, err := s.isFollowing(ctx, senderID, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, ErrNotFollowing
	}

	// 解析/创建会话（并发同对创建由唯一索引兜底）
	conv, err := s.convRepo.GetOrCreate(ctx, senderID, req.TargetUserID)
	if err != nil {
		return nil, err
	}

	msg := &mongo.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		IsRead:         false,
		CreatedAt:      time.Now(),
	}
	if err := s.messageRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	// 刷新收件箱渲染缓存
	if err := s.convRepo.UpdateLastMessage(ctx, conv.ID, truncatePreview(content), senderID, msg.CreatedAt); err != nil {
		log.WarnContext(ctx, "failed to update conversation preview", "convID", conv.ID, "err", err)
	}

	// 在线推送：收件方全部连接 + 发送方其他端回显
	msgDTO := toMessageDTO(msg)
	s.hub.Push(req.TargetUserID, consts.EventNewMessage, msgDTO)
	s.hub.PushExcept(senderID, origin, consts.EventMessageEcho, msgDTO)

	return msgDTO, nil
}

// GetMessages 拉取一页消息，按时间正序返回。
// 非会话参与者与会话不存在同样返回 ErrConversationNotFound。
func (s *imServiceImpl) GetMessages(ctx context.Context, userID, convID uint64, limit, offset int) ([]*dto.MessageDTO, error) {
	conv, err := s.convRepo.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	if conv == nil || !conv.HasParticipant(userID) {
		return nil, ErrConversationNotFound
	}

	// 底层按最新在前取页，返回前翻转成正序
	models, err := s.messageRepo.GetPage(ctx, convID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		res = append(res, toMessageDTO(models[i]))
	}
	return res, nil
}

// MarkAsRead 将会话内对方发送的消息全部置为已读，幂等
func (s *imServiceImpl) MarkAsRead(ctx context.Context, userID, convID uint64) error {
	conv, err := s.convRepo.GetConversation(ctx, convID)
	if err != nil {
		return err
	}
	if conv == nil || !conv.HasParticipant(userID) {
		return ErrConversationNotFound
	}

	if err := s.messageRepo.MarkConversationRead(ctx, convID, userID); err != nil {
		return err
	}

	// 已读回执推给对方，尽力而为
	s.hub.Push(conv.PeerOf(userID), consts.EventReadReceipt, &dto.ReadReceiptDTO{
		ConversationID: convID,
		ReaderID:       userID,
	})
	return nil
}

// GetConversationList 收件箱：按最后消息时间倒序，未读数单次聚合计算
func (s *imServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	convIDs := make([]uint64, 0, len(convs))
	for _, c := range convs {
		convIDs = append(convIDs, c.ID)
	}
	unread, err := s.messageRepo.UnreadCounts(ctx, convIDs, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(convs))
	for _, c := range convs {
		res = append(res, &dto.ConversationDTO{
			ConversationID:  c.ID,
			PeerID:          c.PeerOf(userID),
			LastMessageText: c.LastMessageText,
			LastSenderID:    c.LastSenderID,
			LastMessageAt:   c.LastMessageAt,
			UnreadCount:     unread[c.ID],
		})
	}
	return res, nil
}

// GetUnreadTotal 全局未读消息数
func (s *imServiceImpl) GetUnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	convIDs, err := s.convRepo.GetConversationIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.messageRepo.CountUnreadTotal(ctx, convIDs, userID)
}

// Typing 输入提示：不落库，节流后转发给对方，任何失败都吞掉
func (s *imServiceImpl) Typing(ctx context.Context, userID, convID uint64) {
	conv, err := s.convRepo.GetConversation(ctx, convID)
	if err != nil || conv == nil || !conv.HasParticipant(userID) {
		return
	}

	key := consts.IMTypingKey + strconv.FormatUint(convID, 10) + ":" + strconv.FormatUint(userID, 10)
	ok, err := redis.SetNX(ctx, key, "1", s.typingTTL)
	if err != nil {
		log.WarnContext(ctx, "typing throttle failed", "err", err)
	}
	if err == nil && !ok {
		return
	}

	s.hub.Push(conv.PeerOf(userID), consts.EventTyping, &dto.TypingDTO{
		ConversationID: convID,
		UserID:         userID,
	})
}

// isFollowing 关注边存在性检查，Redis 缓存命中优先
func (s *imServiceImpl) isFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	key := consts.UserFollowEdgeKey + strconv.FormatUint(followerID, 10) + "_" + strconv.FormatUint(followingID, 10)
	if v, err := redis.GetValue(ctx, key); err == nil && v == "1" {
		return true, nil
	}

	follow, err := s.followRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if follow == nil {
		return false, nil
	}

	if err := redis.SetWithExpiration(ctx, key, "1", followEdgeCacheTTL); err != nil {
		log.WarnContext(ctx, "failed to cache follow edge", "err", err)
	}
	return true, nil
}

func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= consts.MessagePreviewLen {
		return content
	}
	return string(runes[:consts.MessagePreviewLen])
}

func toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	id := ""
	if !m.ID.IsZero() {
		id = m.ID.Hex()
	}
	return &dto.MessageDTO{
		ID:             id,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
