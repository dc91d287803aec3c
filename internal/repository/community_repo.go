package repository

import (
	"Campus/internal/model"
	"context"

	"gorm.io/gorm"
)

// CommunityRepo 社区只读仓库，通知补全与群主定位用
type CommunityRepo interface {
	GetCommunityByIds(ctx context.Context, communityIDs []uint64) ([]*model.Community, error)
}

type communityRepoImpl struct {
	db *gorm.DB
}

func NewCommunityRepo(db *gorm.DB) CommunityRepo {
	return &communityRepoImpl{db: db}
}

// GetCommunityByIds 批量查社区
func (s *communityRepoImpl) GetCommunityByIds(ctx context.Context, communityIDs []uint64) ([]*model.Community, error) {
	if len(communityIDs) == 0 {
		return nil, nil
	}
	var communities []*model.Community
	err := s.db.WithContext(ctx).Where("id IN ?", communityIDs).Find(&communities).Error
	return communities, err
}
