package kafka

import (
	"Campus/internal/pkg/consts"
	"Campus/internal/pkg/redis"
	"Campus/internal/service"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// FollowsHandler 消费关注表的 Canal 变更：新增关注发通知，
// 关注/取关都要作废对应的关注边缓存
type FollowsHandler struct {
	notifyService service.NotificationService
}

func NewFollowsHandler(notifyService service.NotificationService) *FollowsHandler {
	return &FollowsHandler{notifyService: notifyService}
}

func (s *FollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user follow consumer setup")
	return nil
}

func (s *FollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user follow consumer cleanup")
	return nil
}

func (s *FollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-follow consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-follow process batch error", "err", err)
		return err
	}
	return nil
}

func (s *FollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows")
	if err != nil {
		return err
	}

	row := canalMsg.Data[0]
	followerID := StrToUint64(row["follower_id"])
	followingID := StrToUint64(row["following_id"])
	if followerID == 0 || followingID == 0 {
		return nil
	}

	// 私信的关注边缓存随关注关系变更作废
	key := consts.UserFollowEdgeKey + strconv.FormatUint(followerID, 10) + "_" + strconv.FormatUint(followingID, 10)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "failed to invalidate follow edge cache", "key", key, "err", err)
	}

	if canalMsg.Type != INSERT {
		return nil
	}

	return s.notifyService.Create(ctx, &service.NotifyParams{
		Type:        consts.NotifyTypeFollow,
		RecipientID: followingID,
		ActorID:     followerID,
	})
}
