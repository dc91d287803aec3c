package service

import (
	"Campus/internal/model"
	"Campus/internal/pkg/consts"
	"Campus/internal/pkg/mongo"
	redispkg "Campus/internal/pkg/redis"
	"Campus/internal/repository"
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Redis 指向一个不可达地址：缓存路径全部快速失败，
// 服务必须能在缓存不可用时退化到数据库路径
func TestMain(m *testing.M) {
	redispkg.Rdb = goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	os.Exit(m.Run())
}

// ---- 会话 ----

type fakeConvRepo struct {
	mu     sync.Mutex
	nextID uint64
	convs  map[string]*model.Conversation
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{nextID: 1, convs: make(map[string]*model.Conversation)}
}

func (f *fakeConvRepo) GetOrCreate(_ context.Context, userA, userB uint64) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := model.PeerKeyOf(userA, userB)
	if c, ok := f.convs[key]; ok {
		return c, nil
	}
	first, second := userA, userB
	if first > second {
		first, second = second, first
	}
	c := &model.Conversation{ID: f.nextID, PeerKey: key, UserAID: first, UserBID: second}
	f.nextID++
	f.convs[key] = c
	return c, nil
}

func (f *fakeConvRepo) GetConversation(_ context.Context, convID uint64) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.convs {
		if c.ID == convID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeConvRepo) UpdateLastMessage(_ context.Context, convID uint64, preview string, senderID uint64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.convs {
		if c.ID == convID {
			c.LastMessageText = preview
			c.LastSenderID = senderID
			c.LastMessageAt = at
		}
	}
	return nil
}

func (f *fakeConvRepo) ListByUser(_ context.Context, userID uint64) ([]*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.Conversation
	for _, c := range f.convs {
		if c.HasParticipant(userID) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].LastMessageAt.After(res[j].LastMessageAt) })
	return res, nil
}

func (f *fakeConvRepo) GetConversationIDs(_ context.Context, userID uint64) ([]uint64, error) {
	convs, _ := f.ListByUser(nil, userID)
	ids := make([]uint64, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// ---- 消息 ----

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*mongo.Message
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (f *fakeMessageRepo) SaveMessage(_ context.Context, msg *mongo.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	cp := *msg
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageRepo) GetPage(_ context.Context, convID uint64, limit, offset int) ([]*mongo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*mongo.Message
	for _, m := range f.messages {
		if m.ConversationID == convID {
			all = append(all, m)
		}
	}
	// 最新在前
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, convID, readerID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ConversationID == convID && m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) UnreadCounts(_ context.Context, convIDs []uint64, readerID uint64) (map[uint64]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make(map[uint64]int64, len(convIDs))
	for _, id := range convIDs {
		for _, m := range f.messages {
			if m.ConversationID == id && m.SenderID != readerID && !m.IsRead {
				res[id]++
			}
		}
	}
	return res, nil
}

func (f *fakeMessageRepo) CountUnreadTotal(ctx context.Context, convIDs []uint64, readerID uint64) (int64, error) {
	counts, _ := f.UnreadCounts(ctx, convIDs, readerID)
	var total int64
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// ---- 关注 ----

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[[2]uint64]struct{}
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[[2]uint64]struct{})}
}

func (f *fakeFollowRepo) add(followerID, followingID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges[[2]uint64{followerID, followingID}] = struct{}{}
}

func (f *fakeFollowRepo) GetUserFollow(_ context.Context, followerID, followingID uint64) (*model.UserFollow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.edges[[2]uint64{followerID, followingID}]; ok {
		return &model.UserFollow{FollowerID: followerID, FollowingID: followingID}, nil
	}
	return nil, nil
}

func (f *fakeFollowRepo) GetFollowerIDs(_ context.Context, userID uint64) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint64
	for e := range f.edges {
		if e[1] == userID {
			ids = append(ids, e[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ---- 用户 ----

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uint64]*model.User
	touched []uint64
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint64]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetUsersByIDs(_ context.Context, userIDs []uint64) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (f *fakeUserRepo) FindByNicknameContains(_ context.Context, fragment string) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Nickname), fragment) {
			res = append(res, u)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeUserRepo) TouchLastActive(_ context.Context, userID uint64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, userID)
	if u, ok := f.users[userID]; ok {
		t := at
		u.LastActiveAt = &t
	}
	return nil
}

func (f *fakeUserRepo) CountOnline(_ context.Context, userIDs []uint64, activeAfter time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, id := range userIDs {
		u, ok := f.users[id]
		if ok && u.ShowOnline && u.LastActiveAt != nil && u.LastActiveAt.After(activeAfter) {
			count++
		}
	}
	return count, nil
}

// ---- 通知 ----

type fakeNotifyRepo struct {
	mu            sync.Mutex
	notifications []*mongo.Notification
}

func newFakeNotifyRepo() *fakeNotifyRepo { return &fakeNotifyRepo{} }

func (f *fakeNotifyRepo) Create(_ context.Context, n *mongo.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = primitive.NewObjectID()
	cp := *n
	f.notifications = append(f.notifications, &cp)
	return nil
}

func (f *fakeNotifyRepo) FindRecentFollow(_ context.Context, recipientID, actorID uint64, since time.Time) (*mongo.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.Type == consts.NotifyTypeFollow && n.RecipientID == recipientID && n.ActorID == actorID && !n.CreatedAt.Before(since) {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotifyRepo) RefreshFollow(_ context.Context, id primitive.ObjectID, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id {
			n.CreatedAt = now
			n.IsRead = false
		}
	}
	return nil
}

func (f *fakeNotifyRepo) List(_ context.Context, recipientID uint64, limit, offset int64) ([]*mongo.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*mongo.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			all = append(all, n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= int64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeNotifyRepo) CountAll(_ context.Context, recipientID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifyRepo) CountUnread(_ context.Context, recipientID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifyRepo) MarkRead(_ context.Context, recipientID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == oid && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotifyRepo) MarkAllRead(_ context.Context, recipientID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotifyRepo) Delete(_ context.Context, recipientID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.notifications[:0]
	for _, n := range f.notifications {
		if n.ID == oid && n.RecipientID == recipientID {
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return nil
}

func (f *fakeNotifyRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	kept := f.notifications[:0]
	for _, n := range f.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}

// ---- 帖子 / 社区 ----

type fakePostRepo struct {
	posts map[uint64]*model.Post
}

func newFakePostRepo(posts ...*model.Post) *fakePostRepo {
	f := &fakePostRepo{posts: make(map[uint64]*model.Post)}
	for _, p := range posts {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePostRepo) GetPostByIds(_ context.Context, postIDs []uint64) ([]*model.Post, error) {
	var res []*model.Post
	for _, id := range postIDs {
		if p, ok := f.posts[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

type fakeCommunityRepo struct {
	communities map[uint64]*model.Community
}

func newFakeCommunityRepo(communities ...*model.Community) *fakeCommunityRepo {
	f := &fakeCommunityRepo{communities: make(map[uint64]*model.Community)}
	for _, c := range communities {
		f.communities[c.ID] = c
	}
	return f
}

func (f *fakeCommunityRepo) GetCommunityByIds(_ context.Context, communityIDs []uint64) ([]*model.Community, error) {
	var res []*model.Community
	for _, id := range communityIDs {
		if c, ok := f.communities[id]; ok {
			res = append(res, c)
		}
	}
	return res, nil
}

var (
	_ repository.ConversationRepo = (*fakeConvRepo)(nil)
	_ mongo.MessageRepo           = (*fakeMessageRepo)(nil)
	_ repository.UserFollowRepo   = (*fakeFollowRepo)(nil)
	_ repository.UserRepo         = (*fakeUserRepo)(nil)
	_ mongo.NotificationRepo      = (*fakeNotifyRepo)(nil)
	_ repository.PostRepo         = (*fakePostRepo)(nil)
	_ repository.CommunityRepo    = (*fakeCommunityRepo)(nil)
)
