package service

import (
	"Campus/internal/api/dto"
	"Campus/internal/pkg/ws"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type imFixture struct {
	svc      IMService
	convRepo *fakeConvRepo
	msgRepo  *fakeMessageRepo
	follows  *fakeFollowRepo
}

func newIMFixture() *imFixture {
	convRepo := newFakeConvRepo()
	msgRepo := newFakeMessageRepo()
	follows := newFakeFollowRepo()
	return &imFixture{
		svc:      NewIMService(convRepo, msgRepo, follows, ws.NewHub(), time.Second),
		convRepo: convRepo,
		msgRepo:  msgRepo,
		follows:  follows,
	}
}

func TestSendMessageRequiresFollow(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hi"}, nil)
	require.ErrorIs(t, err, ErrNotFollowing)

	// 关注校验失败时不得留下任何持久化痕迹
	require.Empty(t, f.msgRepo.messages)
	require.Empty(t, f.convRepo.convs)

	// 反向关注不满足前置条件
	f.follows.add(2, 1)
	_, err = f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hi"}, nil)
	require.ErrorIs(t, err, ErrNotFollowing)
}

func TestSendMessageValidation(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)

	_, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "   "}, nil)
	require.ErrorIs(t, err, ErrMessageEmpty)

	_, err = f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 1, Content: "hi"}, nil)
	require.ErrorIs(t, err, ErrTargetInvalid)

	_, err = f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 0, Content: "hi"}, nil)
	require.ErrorIs(t, err, ErrTargetInvalid)
}

func TestSendThenFetchAscending(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)

	m1, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "first"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, m1.ID)

	// 保证两条消息时间可区分
	f.msgRepo.messages[0].CreatedAt = f.msgRepo.messages[0].CreatedAt.Add(-time.Second)

	_, err = f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "second"}, nil)
	require.NoError(t, err)

	msgs, err := f.svc.GetMessages(ctx, 2, m1.ConversationID, 20, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "first", msgs[0].Content)
	require.Equal(t, "second", msgs[1].Content)
}

func TestSendMessageReusesConversation(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)
	f.follows.add(2, 1)

	m1, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "a"}, nil)
	require.NoError(t, err)
	m2, err := f.svc.SendMessage(ctx, 2, &dto.SendMessageReq{TargetUserID: 1, Content: "b"}, nil)
	require.NoError(t, err)

	require.Equal(t, m1.ConversationID, m2.ConversationID)
	require.Len(t, f.convRepo.convs, 1)
}

func TestSendMessageTruncatesPreview(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)

	long := strings.Repeat("测", 100)
	m, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: long}, nil)
	require.NoError(t, err)

	conv, err := f.convRepo.GetConversation(ctx, m.ConversationID)
	require.NoError(t, err)
	require.Equal(t, 64, len([]rune(conv.LastMessageText)))
	require.Equal(t, long, m.Content) // 完整内容不受截断影响
	require.Equal(t, uint64(1), conv.LastSenderID)
}

func TestGetMessagesAccessControl(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)

	m, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "secret"}, nil)
	require.NoError(t, err)

	// 非参与者与会话不存在表现一致
	_, err = f.svc.GetMessages(ctx, 3, m.ConversationID, 20, 0)
	require.ErrorIs(t, err, ErrConversationNotFound)

	_, err = f.svc.GetMessages(ctx, 1, 999, 20, 0)
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)

	m, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hi"}, nil)
	require.NoError(t, err)
	convID := m.ConversationID

	total, err := f.svc.GetUnreadTotal(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	require.NoError(t, f.svc.MarkAsRead(ctx, 2, convID))
	require.NoError(t, f.svc.MarkAsRead(ctx, 2, convID))

	total, err = f.svc.GetUnreadTotal(ctx, 2)
	require.NoError(t, err)
	require.Zero(t, total)

	// 发送者自己的消息不计入发送者未读
	total, err = f.svc.GetUnreadTotal(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, total)

	require.ErrorIs(t, f.svc.MarkAsRead(ctx, 3, convID), ErrConversationNotFound)
}

func TestGetConversationListWithUnread(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)
	f.follows.add(3, 2)

	_, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "from 1"}, nil)
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, 3, &dto.SendMessageReq{TargetUserID: 2, Content: "from 3 a"}, nil)
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, 3, &dto.SendMessageReq{TargetUserID: 2, Content: "from 3 b"}, nil)
	require.NoError(t, err)

	list, err := f.svc.GetConversationList(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byPeer := make(map[uint64]*dto.ConversationDTO)
	for _, c := range list {
		byPeer[c.PeerID] = c
	}
	require.Equal(t, int64(1), byPeer[1].UnreadCount)
	require.Equal(t, int64(2), byPeer[3].UnreadCount)
	require.Equal(t, "from 3 b", byPeer[3].LastMessageText)
}

func TestTypingIsEphemeral(t *testing.T) {
	f := newIMFixture()
	ctx := context.Background()
	f.follows.add(1, 2)

	m, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hi"}, nil)
	require.NoError(t, err)
	before := len(f.msgRepo.messages)

	// 输入提示不落库；节流层不可用时也不得恐慌
	f.svc.Typing(ctx, 1, m.ConversationID)
	f.svc.Typing(ctx, 3, m.ConversationID)
	f.svc.Typing(ctx, 1, 999)

	require.Len(t, f.msgRepo.messages, before)
}
