package kafka

import (
	"Campus/internal/pkg/consts"
	"Campus/internal/repository"
	"Campus/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// CommunityMembersHandler 消费社区成员表的 Canal 变更，给社区所有者发新成员通知
type CommunityMembersHandler struct {
	communityRepo repository.CommunityRepo
	notifyService service.NotificationService
}

func NewCommunityMembersHandler(communityRepo repository.CommunityRepo, notifyService service.NotificationService) *CommunityMembersHandler {
	return &CommunityMembersHandler{
		communityRepo: communityRepo,
		notifyService: notifyService,
	}
}

func (s *CommunityMembersHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("community member consumer setup")
	return nil
}

func (s *CommunityMembersHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("community member consumer cleanup")
	return nil
}

func (s *CommunityMembersHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-community consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-community process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommunityMembersHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "community_members")
	if err != nil {
		return err
	}

	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	userID := StrToUint64(row["user_id"])
	communityID := StrToUint64(row["community_id"])
	if userID == 0 || communityID == 0 {
		return nil
	}

	communities, err := s.communityRepo.GetCommunityByIds(ctx, []uint64{communityID})
	if err != nil {
		return err
	}
	if len(communities) == 0 {
		return nil
	}

	return s.notifyService.Create(ctx, &service.NotifyParams{
		Type:        consts.NotifyTypeCommunityJoin,
		RecipientID: communities[0].OwnerID,
		ActorID:     userID,
		CommunityID: communityID,
	})
}
