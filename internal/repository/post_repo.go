package repository

import (
	"Campus/internal/model"
	"context"

	"gorm.io/gorm"
)

// PostRepo 帖子只读仓库，通知补全与作者定位用
type PostRepo interface {
	GetPostByIds(ctx context.Context, postIDs []uint64) ([]*model.Post, error)
}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepoImpl{db: db}
}

// GetPostByIds 批量查帖子
func (s *postRepoImpl) GetPostByIds(ctx context.Context, postIDs []uint64) ([]*model.Post, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var posts []*model.Post
	err := s.db.WithContext(ctx).Where("id IN ?", postIDs).Find(&posts).Error
	return posts, err
}
