package kafka

import (
	"Campus/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// PostsHandler 消费帖子表的 Canal 变更：
// 新帖向作者的关注者扇出通知，并解析正文中的@提及
type PostsHandler struct {
	notifyService service.NotificationService
}

func NewPostsHandler(notifyService service.NotificationService) *PostsHandler {
	return &PostsHandler{notifyService: notifyService}
}

func (s *PostsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer setup")
	return nil
}

func (s *PostsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer cleanup")
	return nil
}

func (s *PostsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-post consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-post process batch error", "err", err)
		return err
	}
	return nil
}

func (s *PostsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "posts")
	if err != nil {
		return err
	}

	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	postID := StrToUint64(row["id"])
	authorID := StrToUint64(row["user_id"])
	if postID == 0 || authorID == 0 {
		return nil
	}

	if err := s.notifyService.FanOutNewPost(ctx, authorID, postID); err != nil {
		return err
	}

	// 标题和正文都参与提及解析
	text := StrToString(row["title"]) + " " + StrToString(row["content"])
	return s.notifyService.NotifyMentions(ctx, authorID, postID, 0, text)
}
