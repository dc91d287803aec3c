package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 通知模型
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        int8               `bson:"type" json:"type"`                             // consts.NotifyType*
	RecipientID uint64             `bson:"recipient_id" json:"recipientId"`              // 通知接收者
	ActorID     uint64             `bson:"actor_id,omitempty" json:"actorId"`            // 动作发起者（可为0）
	PostID      uint64             `bson:"post_id,omitempty" json:"postId"`              // 关联帖子
	CommentID   uint64             `bson:"comment_id,omitempty" json:"commentId"`        // 关联评论
	CommunityID uint64             `bson:"community_id,omitempty" json:"communityId"`    // 关联社区
	IsRead      bool               `bson:"is_read" json:"isRead"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
