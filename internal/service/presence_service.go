package service

import (
	"Campus/internal/api/dto"
	"Campus/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// PresenceService 在线状态服务接口定义
type PresenceService interface {
	Touch(userID uint64)
	GetPresence(ctx context.Context, userID uint64) (*dto.PresenceDTO, error)
	CountOnline(ctx context.Context, userIDs []uint64) (int64, error)
}

type presenceServiceImpl struct {
	userRepo     repository.UserRepo
	onlineWindow time.Duration
}

// NewPresenceService 构造函数
func NewPresenceService(userRepo repository.UserRepo, onlineWindowMinutes int) PresenceService {
	if onlineWindowMinutes <= 0 {
		onlineWindowMinutes = 5
	}
	return &presenceServiceImpl{
		userRepo:     userRepo,
		onlineWindow: time.Duration(onlineWindowMinutes) * time.Minute,
	}
}

// Touch 活跃打点，异步执行且不影响请求主流程
func (s *presenceServiceImpl) Touch(userID uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.userRepo.TouchLastActive(ctx, userID, time.Now()); err != nil {
			log.Warn("presence touch failed", "userID", userID, "err", err)
		}
	}()
}

// GetPresence 查询单个用户在线状态。
// 关闭了在线展示的用户一律报告离线，与真实活跃情况无关。
func (s *presenceServiceImpl) GetPresence(ctx context.Context, userID uint64) (*dto.PresenceDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	online := user.ShowOnline &&
		user.LastActiveAt != nil &&
		user.LastActiveAt.After(time.Now().Add(-s.onlineWindow))

	return &dto.PresenceDTO{
		UserID: userID,
		Online: online,
	}, nil
}

// CountOnline 统计一组用户中的在线人数，单条 SQL 完成
func (s *presenceServiceImpl) CountOnline(ctx context.Context, userIDs []uint64) (int64, error) {
	return s.userRepo.CountOnline(ctx, userIDs, time.Now().Add(-s.onlineWindow))
}
