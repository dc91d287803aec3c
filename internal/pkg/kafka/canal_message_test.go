package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
)

func TestStrToUint64(t *testing.T) {
	require.Equal(t, uint64(42), StrToUint64("42"))
	require.Zero(t, StrToUint64("not a number"))
	require.Zero(t, StrToUint64(nil))
	require.Zero(t, StrToUint64(42)) // Canal 只给字符串，其他类型一律归零
}

func TestToCanalMessage(t *testing.T) {
	raw := `{"table":"posts","type":"INSERT","data":[{"id":"1","user_id":"2"}]}`
	msg := &sarama.ConsumerMessage{Value: []byte(raw)}

	canalMsg, err := ToCanalMessage(msg, "posts")
	require.NoError(t, err)
	require.Equal(t, INSERT, canalMsg.Type)
	require.Equal(t, uint64(1), StrToUint64(canalMsg.Data[0]["id"]))

	// 表名不匹配与空数据都拒绝
	_, err = ToCanalMessage(msg, "users")
	require.Error(t, err)

	empty := &sarama.ConsumerMessage{Value: []byte(`{"table":"posts","type":"INSERT","data":[]}`)}
	_, err = ToCanalMessage(empty, "posts")
	require.Error(t, err)

	bad := &sarama.ConsumerMessage{Value: []byte(`{`)}
	_, err = ToCanalMessage(bad, "posts")
	require.Error(t, err)
}
