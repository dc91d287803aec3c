package service

import (
	"Campus/internal/api/dto"
	"Campus/internal/model"
	"Campus/internal/pkg/consts"
	"Campus/internal/pkg/mongo"
	"Campus/internal/pkg/util"
	"Campus/internal/pkg/ws"
	"Campus/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

// 关注通知去重窗口：窗口内同一人重复关注只原地刷新，不产生新通知
const followDedupWindow = 24 * time.Hour

// NotifyParams 一次通知投递的全部输入
type NotifyParams struct {
	Type        int8
	RecipientID uint64
	ActorID     uint64
	PostID      uint64
	CommentID   uint64
	CommunityID uint64
}

// NotificationService 通知服务接口定义
type NotificationService interface {
	Create(ctx context.Context, params *NotifyParams) error
	FanOutNewPost(ctx context.Context, authorID, postID uint64) error
	NotifyMentions(ctx context.Context, authorID, postID, commentID uint64, text string) error
	List(ctx context.Context, userID uint64, limit, offset int64) (*dto.NotificationPageDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64, id string) error
	CleanupRead(ctx context.Context) (int64, error)
}

type notificationServiceImpl struct {
	notifyRepo    mongo.NotificationRepo
	userRepo      repository.UserRepo
	followRepo    repository.UserFollowRepo
	postRepo      repository.PostRepo
	communityRepo repository.CommunityRepo
	hub           *ws.Hub
	mentionParser *util.MentionParser
	retention     time.Duration
}

// NewNotificationService 构造函数
func NewNotificationService(
	notifyRepo mongo.NotificationRepo,
	userRepo repository.UserRepo,
	followRepo repository.UserFollowRepo,
	postRepo repository.PostRepo,
	communityRepo repository.CommunityRepo,
	hub *ws.Hub,
	mentionParser *util.MentionParser,
	retentionDays int,
) NotificationService {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &notificationServiceImpl{
		notifyRepo:    notifyRepo,
		userRepo:      userRepo,
		followRepo:    followRepo,
		postRepo:      postRepo,
		communityRepo: communityRepo,
		hub:           hub,
		mentionParser: mentionParser,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// 通知类型 -> 接收者偏好开关
var prefSelectors = map[int8]func(*model.User) bool{
	consts.NotifyTypeLike:          func(u *model.User) bool { return u.NotifyLikes },
	consts.NotifyTypeComment:       func(u *model.User) bool { return u.NotifyComments },
	consts.NotifyTypeFollow:        func(u *model.User) bool { return u.NotifyFollows },
	consts.NotifyTypeNewPost:       func(u *model.User) bool { return u.NotifyNewPosts },
	consts.NotifyTypeMention:       func(u *model.User) bool { return u.NotifyMentions },
	consts.NotifyTypeCommunityJoin: func(u *model.User) bool { return u.NotifyCommunityJoins },
}

// Create 生成一条通知。自己触发自己的动作不通知；接收者关掉对应
// 开关时静默丢弃；关注类通知在去重窗口内只原地刷新。
func (s *notificationServiceImpl) Create(ctx context.Context, params *NotifyParams) error {
	if params.ActorID != 0 && params.ActorID == params.RecipientID {
		return nil
	}

	recipient, err := s.userRepo.GetUserByID(ctx, params.RecipientID)
	if err != nil {
		return err
	}
	if recipient == nil {
		return nil
	}
	selector, ok := prefSelectors[params.Type]
	if !ok {
		return ErrParamInvalid
	}
	if !selector(recipient) {
		return nil
	}

	now := time.Now()

	if params.Type == consts.NotifyTypeFollow {
		recent, err := s.notifyRepo.FindRecentFollow(ctx, params.RecipientID, params.ActorID, now.Add(-followDedupWindow))
		if err != nil {
			return err
		}
		if recent != nil {
			if err := s.notifyRepo.RefreshFollow(ctx, recent.ID, now); err != nil {
				return err
			}
			recent.CreatedAt = now
			recent.IsRead = false
			s.pushNotification(ctx, recent)
			return nil
		}
	}

	n := &mongo.Notification{
		Type:        params.Type,
		RecipientID: params.RecipientID,
		ActorID:     params.ActorID,
		PostID:      params.PostID,
		CommentID:   params.CommentID,
		CommunityID: params.CommunityID,
		IsRead:      false,
		CreatedAt:   now,
	}
	if err := s.notifyRepo.Create(ctx, n); err != nil {
		return err
	}
	s.pushNotification(ctx, n)
	return nil
}

// FanOutNewPost 给作者的全部关注者投递新帖通知，单个失败不中断整体
func (s *notificationServiceImpl) FanOutNewPost(ctx context.Context, authorID, postID uint64) error {
	followerIDs, err := s.followRepo.GetFollowerIDs(ctx, authorID)
	if err != nil {
		return err
	}

	for _, followerID := range followerIDs {
		err := s.Create(ctx, &NotifyParams{
			Type:        consts.NotifyTypeNewPost,
			RecipientID: followerID,
			ActorID:     authorID,
			PostID:      postID,
		})
		if err != nil {
			log.ErrorContext(ctx, "new post fan-out failed for one follower",
				"authorID", authorID, "followerID", followerID, "err", err)
		}
	}
	return nil
}

// NotifyMentions 解析文本中的@片段并给所有昵称命中的用户发提及通知。
// 片段按包含关系匹配昵称，一个片段命中多人时全部投递。
func (s *notificationServiceImpl) NotifyMentions(ctx context.Context, authorID, postID, commentID uint64, text string) error {
	fragments := s.mentionParser.Extract(text)
	if len(fragments) == 0 {
		return nil
	}

	// 跨片段按用户去重，作者提及自己无效
	seen := make(map[uint64]struct{})
	for _, fragment := range fragments {
		users, err := s.userRepo.FindByNicknameContains(ctx, fragment)
		if err != nil {
			log.ErrorContext(ctx, "mention lookup failed", "fragment", fragment, "err", err)
			continue
		}
		for _, u := range users {
			if u.ID == authorID {
				continue
			}
			if _, ok := seen[u.ID]; ok {
				continue
			}
			seen[u.ID] = struct{}{}

			err := s.Create(ctx, &NotifyParams{
				Type:        consts.NotifyTypeMention,
				RecipientID: u.ID,
				ActorID:     authorID,
				PostID:      postID,
				CommentID:   commentID,
			})
			if err != nil {
				log.ErrorContext(ctx, "mention notify failed", "recipientID", u.ID, "err", err)
			}
		}
	}
	return nil
}

// List 分页拉取通知并补全展示字段（发起者昵称、帖子标题、社区名）
func (s *notificationServiceImpl) List(ctx context.Context, userID uint64, limit, offset int64) (*dto.NotificationPageDTO, error) {
	list, err := s.notifyRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.notifyRepo.CountAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifyRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, list)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationPageDTO{
		List:        items,
		Total:       total,
		UnreadCount: unread,
	}, nil
}

// GetUnreadCount 未读通知数
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.notifyRepo.CountUnread(ctx, userID)
}

// MarkRead 标记单条已读
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	return s.notifyRepo.MarkRead(ctx, userID, id)
}

// MarkAllRead 全部标记已读
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.notifyRepo.MarkAllRead(ctx, userID)
}

// Delete 删除单条通知
func (s *notificationServiceImpl) Delete(ctx context.Context, userID uint64, id string) error {
	return s.notifyRepo.Delete(ctx, userID, id)
}

// CleanupRead 清理超过保留期的已读通知，定时任务调用
func (s *notificationServiceImpl) CleanupRead(ctx context.Context) (int64, error) {
	return s.notifyRepo.DeleteReadBefore(ctx, time.Now().Add(-s.retention))
}

// enrich 批量补全通知的关联展示字段
func (s *notificationServiceImpl) enrich(ctx context.Context, list []*mongo.Notification) ([]*dto.NotificationDTO, error) {
	actorIDs := make([]uint64, 0, len(list))
	postIDs := make([]uint64, 0)
	communityIDs := make([]uint64, 0)
	for _, n := range list {
		if n.ActorID != 0 {
			actorIDs = append(actorIDs, n.ActorID)
		}
		if n.PostID != 0 {
			postIDs = append(postIDs, n.PostID)
		}
		if n.CommunityID != 0 {
			communityIDs = append(communityIDs, n.CommunityID)
		}
	}

	actors, err := s.userRepo.GetUsersByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetPostByIds(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	communities, err := s.communityRepo.GetCommunityByIds(ctx, communityIDs)
	if err != nil {
		return nil, err
	}

	actorNames := make(map[uint64]string, len(actors))
	for _, u := range actors {
		actorNames[u.ID] = u.Nickname
	}
	postTitles := make(map[uint64]string, len(posts))
	for _, p := range posts {
		postTitles[p.ID] = p.Title
	}
	communityNames := make(map[uint64]string, len(communities))
	for _, c := range communities {
		communityNames[c.ID] = c.Name
	}

	items := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		var d dto.NotificationDTO
		if err := copier.Copy(&d, n); err != nil {
			return nil, err
		}
		d.ID = n.ID.Hex()
		d.CreatedAt = n.CreatedAt.Format(time.DateTime)
		d.ActorName = actorNames[n.ActorID]
		d.PostTitle = postTitles[n.PostID]
		d.CommunityName = communityNames[n.CommunityID]
		items = append(items, &d)
	}
	return items, nil
}

// pushNotification 在线推送新通知，失败不影响主流程
func (s *notificationServiceImpl) pushNotification(ctx context.Context, n *mongo.Notification) {
	d := &dto.NotificationDTO{
		ID:          n.ID.Hex(),
		Type:        n.Type,
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		PostID:      n.PostID,
		CommentID:   n.CommentID,
		CommunityID: n.CommunityID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt.Format(time.DateTime),
	}
	if n.ActorID != 0 {
		if actor, err := s.userRepo.GetUserByID(ctx, n.ActorID); err == nil && actor != nil {
			d.ActorName = actor.Nickname
		}
	}
	s.hub.Push(n.RecipientID, consts.EventNewNotification, d)
}
