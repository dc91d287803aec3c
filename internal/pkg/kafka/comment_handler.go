package kafka

import (
	"Campus/internal/pkg/consts"
	"Campus/internal/repository"
	"Campus/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// CommentsHandler 消费评论表的 Canal 变更：
// 给帖子作者发评论通知，并解析评论文本中的@提及
type CommentsHandler struct {
	postRepo      repository.PostRepo
	notifyService service.NotificationService
}

func NewCommentsHandler(postRepo repository.PostRepo, notifyService service.NotificationService) *CommentsHandler {
	return &CommentsHandler{
		postRepo:      postRepo,
		notifyService: notifyService,
	}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comment consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comment consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "post_comments")
	if err != nil {
		return err
	}

	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	commentID := StrToUint64(row["id"])
	authorID := StrToUint64(row["user_id"])
	postID := StrToUint64(row["post_id"])
	content := StrToString(row["content"])
	if commentID == 0 || authorID == 0 || postID == 0 {
		return nil
	}

	posts, err := s.postRepo.GetPostByIds(ctx, []uint64{postID})
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		err := s.notifyService.Create(ctx, &service.NotifyParams{
			Type:        consts.NotifyTypeComment,
			RecipientID: posts[0].UserID,
			ActorID:     authorID,
			PostID:      postID,
			CommentID:   commentID,
		})
		if err != nil {
			return err
		}
	}

	// 评论正文里的@提及
	return s.notifyService.NotifyMentions(ctx, authorID, postID, commentID, content)
}
