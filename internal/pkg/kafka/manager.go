package kafka

import (
	"Campus/internal/api/config"
	"Campus/internal/repository"
	"Campus/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// consumerUnit 一个消费者组与其处理器、topic 的绑定
type consumerUnit struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	units []consumerUnit
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	postRepo repository.PostRepo,
	communityRepo repository.CommunityRepo,
	notifyService service.NotificationService,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	bindings := []struct {
		name    string
		binding config.KafkaConsumerBinding
		handler sarama.ConsumerGroupHandler
	}{
		{"like", cfg.KafkaLikeConsumer, NewLikesHandler(postRepo, notifyService)},
		{"comment", cfg.KafkaCommentConsumer, NewCommentsHandler(postRepo, notifyService)},
		{"follow", cfg.KafkaFollowConsumer, NewFollowsHandler(notifyService)},
		{"post", cfg.KafkaPostConsumer, NewPostsHandler(notifyService)},
		{"community", cfg.KafkaCommunityConsumer, NewCommunityMembersHandler(communityRepo, notifyService)},
	}

	m := &ConsumerManager{}
	for _, b := range bindings {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, b.binding.GroupID, saramaCfg)
		if err != nil {
			return nil, err
		}
		m.units = append(m.units, consumerUnit{
			name:    b.name,
			topic:   b.binding.Topic,
			group:   group,
			handler: b.handler,
		})
	}
	return m, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消后统一关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	for _, u := range m.units {
		go func(u consumerUnit) {
			log.Info("consumer started", "name", u.name, "topic", u.topic)
			for {
				if err := u.group.Consume(ctx, []string{u.topic}, u.handler); err != nil {
					log.Error("error from consumer", "name", u.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(u)
	}

	<-ctx.Done()
	log.Info("kafka manager shutting down...")

	for _, u := range m.units {
		if err := u.group.Close(); err != nil {
			log.Error("failed to close consumer", "name", u.name, "err", err)
		}
	}
	return nil
}
