package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	GetPage(ctx context.Context, convID uint64, limit, offset int) ([]*Message, error)
	MarkConversationRead(ctx context.Context, convID uint64, readerID uint64) error
	UnreadCounts(ctx context.Context, convIDs []uint64, readerID uint64) (map[uint64]int64, error)
	CountUnreadTotal(ctx context.Context, convIDs []uint64, readerID uint64) (int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("message"),
	}
}

// SaveMessage 将消息存入 MongoDB
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	res, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetPage 按创建时间倒序取一页（最新的在前，调用方负责翻转）
func (s *messageRepoImpl) GetPage(ctx context.Context, convID uint64, limit, offset int) ([]*Message, error) {
	filter := bson.M{"conversation_id": convID}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkConversationRead 将会话内所有非本人发送的消息置为已读，天然幂等
func (s *messageRepoImpl) MarkConversationRead(ctx context.Context, convID uint64, readerID uint64) error {
	filter := bson.M{
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": readerID},
		"is_read":         false,
	}
	update := bson.M{"$set": bson.M{"is_read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

// UnreadCounts 一次聚合算出多个会话的未读数，避免逐会话 count
func (s *messageRepoImpl) UnreadCounts(ctx context.Context, convIDs []uint64, readerID uint64) (map[uint64]int64, error) {
	res := make(map[uint64]int64, len(convIDs))
	if len(convIDs) == 0 {
		return res, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"conversation_id": bson.M{"$in": convIDs},
			"sender_id":       bson.M{"$ne": readerID},
			"is_read":         false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$conversation_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []struct {
		ConversationID uint64 `bson:"_id"`
		Count          int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	for _, r := range rows {
		res[r.ConversationID] = r.Count
	}
	return res, nil
}

// CountUnreadTotal 计算全局未读消息数
func (s *messageRepoImpl) CountUnreadTotal(ctx context.Context, convIDs []uint64, readerID uint64) (int64, error) {
	if len(convIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"conversation_id": bson.M{"$in": convIDs},
		"sender_id":       bson.M{"$ne": readerID},
		"is_read":         false,
	}
	return s.col.CountDocuments(ctx, filter)
}
