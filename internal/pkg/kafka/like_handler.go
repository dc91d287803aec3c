package kafka

import (
	"Campus/internal/pkg/consts"
	"Campus/internal/repository"
	"Campus/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// LikesHandler 消费帖子点赞表的 Canal 变更，给帖子作者发点赞通知
type LikesHandler struct {
	postRepo      repository.PostRepo
	notifyService service.NotificationService
}

func NewLikesHandler(postRepo repository.PostRepo, notifyService service.NotificationService) *LikesHandler {
	return &LikesHandler{
		postRepo:      postRepo,
		notifyService: notifyService,
	}
}

func (s *LikesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post like consumer setup")
	return nil
}

func (s *LikesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post like consumer cleanup")
	return nil
}

func (s *LikesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-like consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-like process batch error", "err", err)
		return err
	}
	return nil
}

func (s *LikesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "post_likes")
	if err != nil {
		return err
	}

	// 只关心新增点赞，取消点赞不产生通知
	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	userID := StrToUint64(row["user_id"])
	postID := StrToUint64(row["post_id"])
	if userID == 0 || postID == 0 {
		return nil
	}

	posts, err := s.postRepo.GetPostByIds(ctx, []uint64{postID})
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	return s.notifyService.Create(ctx, &service.NotifyParams{
		Type:        consts.NotifyTypeLike,
		RecipientID: posts[0].UserID,
		ActorID:     userID,
		PostID:      postID,
	})
}
