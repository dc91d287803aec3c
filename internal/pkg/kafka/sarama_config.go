package kafka

import (
	"Campus/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

// newSaramaConfig 统一初始化 sarama.Config，未配置的超时取默认值
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false

	c.Consumer.Group.Session.Timeout = secondsOr(kafkaCfg.Consumer.SessionTimeout, 10*time.Second)
	c.Consumer.Group.Heartbeat.Interval = secondsOr(kafkaCfg.Consumer.HeartbeatInterval, 3*time.Second)
	c.Consumer.Group.Rebalance.Timeout = secondsOr(kafkaCfg.Consumer.RebalanceTimeout, 60*time.Second)
	c.Consumer.MaxProcessingTime = secondsOr(kafkaCfg.Consumer.MaxProcessingTime, 30*time.Second)

	return c
}

func secondsOr(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
