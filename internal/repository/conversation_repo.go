package repository

import (
	"Campus/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ConversationRepo interface {
	GetOrCreate(ctx context.Context, userA, userB uint64) (*model.Conversation, error)
	GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error)
	UpdateLastMessage(ctx context.Context, convID uint64, preview string, senderID uint64, at time.Time) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.Conversation, error)
	GetConversationIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

// GetOrCreate 按规范化 PeerKey 取会话，没有则创建。
// 并发创建同一对会撞 PeerKey 唯一索引，撞上时按已存在处理，回查返回。
func (s *conversationRepoImpl) GetOrCreate(ctx context.Context, userA, userB uint64) (*model.Conversation, error) {
	peerKey := model.PeerKeyOf(userA, userB)

	var conv model.Conversation
	err := s.db.WithContext(ctx).Where("peer_key = ?", peerKey).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	first, second := userA, userB
	if first > second {
		first, second = second, first
	}
	newConv := &model.Conversation{
		PeerKey: peerKey,
		UserAID: first,
		UserBID: second,
	}

	err = s.db.WithContext(ctx).Create(newConv).Error
	if err == nil {
		return newConv, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 输给了并发的创建方，此时行一定已存在
		err = s.db.WithContext(ctx).Where("peer_key = ?", peerKey).First(&conv).Error
		if err != nil {
			return nil, err
		}
		return &conv, nil
	}
	return nil, err
}

// GetConversation 根据会话 ID 获取会话，不存在时返回 nil
func (s *conversationRepoImpl) GetConversation(ctx context.Context, convID uint64) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).First(&conv, convID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// UpdateLastMessage 刷新收件箱渲染缓存
func (s *conversationRepoImpl) UpdateLastMessage(ctx context.Context, convID uint64, preview string, senderID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", convID).
		Updates(map[string]interface{}{
			"last_message_text": preview,
			"last_sender_id":    senderID,
			"last_message_at":   at,
		}).Error
}

// ListByUser 用户参与的所有会话，按最后消息时间倒序
func (s *conversationRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := s.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

// GetConversationIDs 用户参与的会话 ID 列表（未读聚合用）
func (s *conversationRepoImpl) GetConversationIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Pluck("id", &ids).Error
	return ids, err
}
