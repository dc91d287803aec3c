package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	IM       IMConfig       `mapstructure:"im"`
	Mention  MentionConfig  `mapstructure:"mention"`
	Presence PresenceConfig `mapstructure:"presence"`
	Notify   NotifyConfig   `mapstructure:"notify"`

	Kafka                  KafkaConfig            `mapstructure:"kafka"`
	KafkaLikeConsumer      KafkaConsumerBinding   `mapstructure:"kafka_like_consumer"`
	KafkaCommentConsumer   KafkaConsumerBinding   `mapstructure:"kafka_comment_consumer"`
	KafkaFollowConsumer    KafkaConsumerBinding   `mapstructure:"kafka_follow_consumer"`
	KafkaPostConsumer      KafkaConsumerBinding   `mapstructure:"kafka_post_consumer"`
	KafkaCommunityConsumer KafkaConsumerBinding   `mapstructure:"kafka_community_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// LogstashConfig 日志上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// IMConfig 即时通讯配置
type IMConfig struct {
	TypingTTLSeconds int `mapstructure:"typing_ttl_seconds"` // 输入提示节流窗口
}

// MentionConfig @提及解析配置
type MentionConfig struct {
	// ExtraLetters 追加到 @名字 匹配模式中的 Unicode 字母范围（如 "\p{Han}"）
	ExtraLetters string `mapstructure:"extra_letters"`
}

// PresenceConfig 在线状态配置
type PresenceConfig struct {
	OnlineWindowMinutes int `mapstructure:"online_window_minutes"`
}

// NotifyConfig 通知配置
type NotifyConfig struct {
	RetentionDays int `mapstructure:"retention_days"` // 已读通知保留天数
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaConsumerBinding 单个消费者的 topic/group 绑定
type KafkaConsumerBinding struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
