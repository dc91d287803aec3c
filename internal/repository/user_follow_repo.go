package repository

import (
	"Campus/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// UserFollowRepo 关注关系只读仓库，写路径在外部的关系服务
type UserFollowRepo interface {
	GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error)
	GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type userFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &userFollowRepoImpl{db: db}
}

// GetUserFollow 查询单条关注边，不存在时返回 nil
func (s *userFollowRepoImpl) GetUserFollow(ctx context.Context, followerID, followingID uint64) (*model.UserFollow, error) {
	var follow model.UserFollow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

// GetFollowerIDs 枚举指向 userID 的所有关注者（NEW_POST 扇出用）
func (s *userFollowRepoImpl) GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	return ids, err
}
