package consts

const (
	UserFollowEdgeKey = "user:follow:edge:" // follower_following -> "1"
	IMTypingKey       = "im:typing:"        // conv_sender 输入提示节流
	TokenRevokedKey   = "token:revoked:"    // token 签名 -> 已吊销标记
)
