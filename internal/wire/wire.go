package wire

import (
	"Campus/internal/api"
	"Campus/internal/api/config"
	"Campus/internal/api/handler"
	"Campus/internal/job"
	"Campus/internal/pkg/cron"
	"Campus/internal/pkg/kafka"
	"Campus/internal/pkg/mongo"
	"Campus/internal/pkg/util"
	"Campus/internal/pkg/ws"
	"Campus/internal/repository"
	"Campus/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	Hub          *ws.Hub
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	convRepo := repository.NewConversationRepo(db)
	postRepo := repository.NewPostRepo(db)
	communityRepo := repository.NewCommunityRepo(db)

	messageRepo := mongo.NewMessageRepo(mongoDB)
	notifyRepo := mongo.NewNotificationRepo(mongoDB)

	hub := ws.NewHub()
	mentionParser := util.NewMentionParser(cfg.Mention.ExtraLetters)

	imService := service.NewIMService(convRepo, messageRepo, userFollowRepo, hub,
		time.Duration(cfg.IM.TypingTTLSeconds)*time.Second)
	notifyService := service.NewNotificationService(notifyRepo, userRepo, userFollowRepo,
		postRepo, communityRepo, hub, mentionParser, cfg.Notify.RetentionDays)
	presenceService := service.NewPresenceService(userRepo, cfg.Presence.OnlineWindowMinutes)

	handlers := &api.HandlersGroup{
		IMHandler:           handler.NewIMHandler(imService),
		WsHandler:           handler.NewWsHandler(hub, imService),
		NotificationHandler: handler.NewNotificationHandler(notifyService),
		PresenceHandler:     handler.NewPresenceHandler(presenceService),
	}

	router := api.SetupRouter(handlers, presenceService)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, postRepo, communityRepo, notifyService)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewNotificationCleanJob(notifyService))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		Hub:          hub,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
