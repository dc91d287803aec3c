package repository

import (
	"Campus/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID uint64) (*model.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []uint64) ([]*model.User, error)
	FindByNicknameContains(ctx context.Context, fragment string) ([]*model.User, error)
	TouchLastActive(ctx context.Context, userID uint64, at time.Time) error
	CountOnline(ctx context.Context, userIDs []uint64, activeAfter time.Time) (int64, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

// GetUserByID 按 ID 查用户，不存在时返回 nil
func (s *userRepoImpl) GetUserByID(ctx context.Context, userID uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs 批量查用户
func (s *userRepoImpl) GetUsersByIDs(ctx context.Context, userIDs []uint64) ([]*model.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []*model.User
	err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

// FindByNicknameContains 昵称模糊匹配（大小写不敏感），@提及解析用。
// 片段中的 % 和 _ 按字面匹配，不作为通配符。
func (s *userRepoImpl) FindByNicknameContains(ctx context.Context, fragment string) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).
		Where("LOWER(nickname) LIKE ? ESCAPE '!'", "%"+escapeLike(fragment)+"%").
		Find(&users).Error
	return users, err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// TouchLastActive 活跃时间打点
func (s *userRepoImpl) TouchLastActive(ctx context.Context, userID uint64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_active_at", at).Error
}

// CountOnline 统计一组用户中当前在线人数（开启展示且窗口内活跃）
func (s *userRepoImpl) CountOnline(ctx context.Context, userIDs []uint64, activeAfter time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN ? AND show_online = ? AND last_active_at > ?", userIDs, true, activeAfter).
		Count(&count).Error
	return count, err
}
