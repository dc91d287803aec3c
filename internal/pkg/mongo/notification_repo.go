package mongo

import (
	"Campus/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *Notification) error
	FindRecentFollow(ctx context.Context, recipientID, actorID uint64, since time.Time) (*Notification, error)
	RefreshFollow(ctx context.Context, id primitive.ObjectID, now time.Time) error
	List(ctx context.Context, recipientID uint64, limit, offset int64) ([]*Notification, error)
	CountAll(ctx context.Context, recipientID uint64) (int64, error)
	CountUnread(ctx context.Context, recipientID uint64) (int64, error)
	MarkRead(ctx context.Context, recipientID uint64, id string) error
	MarkAllRead(ctx context.Context, recipientID uint64) error
	Delete(ctx context.Context, recipientID uint64, id string) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notification"),
	}
}

// Create 插入新通知
func (s *notificationRepoImpl) Create(ctx context.Context, n *Notification) error {
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// FindRecentFollow 查找 since 之后同一发起者对同一接收者的关注通知（去重用）
func (s *notificationRepoImpl) FindRecentFollow(ctx context.Context, recipientID, actorID uint64, since time.Time) (*Notification, error) {
	filter := bson.M{
		"type":         consts.NotifyTypeFollow,
		"recipient_id": recipientID,
		"actor_id":     actorID,
		"created_at":   bson.M{"$gte": since},
	}

	var n Notification
	err := s.col.FindOne(ctx, filter).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// RefreshFollow 原地刷新关注通知：时间推到现在并重新置为未读
func (s *notificationRepoImpl) RefreshFollow(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	update := bson.M{"$set": bson.M{"created_at": now, "is_read": false}}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

// List 分页获取用户的通知列表 (按时间倒序)
func (s *notificationRepoImpl) List(ctx context.Context, recipientID uint64, limit, offset int64) ([]*Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Notification
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CountAll 用户通知总数
func (s *notificationRepoImpl) CountAll(ctx context.Context, recipientID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID})
}

// CountUnread 用户未读通知数
func (s *notificationRepoImpl) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

// MarkRead 标记单条已读；非本人或不存在的 ID 静默不生效
func (s *notificationRepoImpl) MarkRead(ctx context.Context, recipientID uint64, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	filter := bson.M{"_id": objectID, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"is_read": true}}
	_, err = s.col.UpdateOne(ctx, filter, update)
	return err
}

// MarkAllRead 一键清除未读
func (s *notificationRepoImpl) MarkAllRead(ctx context.Context, recipientID uint64) error {
	filter := bson.M{"recipient_id": recipientID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

// Delete 删除单条；非本人或不存在的 ID 静默不生效
func (s *notificationRepoImpl) Delete(ctx context.Context, recipientID uint64, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": objectID, "recipient_id": recipientID})
	return err
}

// DeleteReadBefore 清理 cutoff 之前的已读通知，返回删除条数
func (s *notificationRepoImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"is_read": true, "created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
