package ws

import (
	log "log/slog"
	"sync"

	"github.com/goccy/go-json"
)

// Event 下行推送信封
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub 在线连接注册表：用户 ID -> 存活连接集合。
// 仅覆盖本进程内的连接；多实例部署时需把这张表换成按用户的共享
// 发布订阅频道，Push 的对外契约保持不变。
type Hub struct {
	mu      sync.RWMutex
	buckets map[uint64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		buckets: make(map[uint64]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.buckets[c.userID]
	if !ok {
		bucket = make(map[*Client]struct{})
		h.buckets[c.userID] = bucket
	}
	bucket[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.buckets[c.userID]
	if !ok {
		return
	}
	delete(bucket, c)
	if len(bucket) == 0 {
		delete(h.buckets, c.userID)
	}
}

// Push 向用户的全部在线连接各推一份，单次序列化。
// 没有连接时静默丢弃：事件已经落库，推送只是增强，不补投。
func (h *Hub) Push(userID uint64, event string, payload interface{}) {
	data, err := json.Marshal(&Event{Type: event, Data: payload})
	if err != nil {
		log.Error("ws push marshal failed", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.buckets[userID] {
		c.enqueue(data)
	}
}

// PushExcept 同 Push，但跳过指定连接（发送回显用）
func (h *Hub) PushExcept(userID uint64, skip *Client, event string, payload interface{}) {
	data, err := json.Marshal(&Event{Type: event, Data: payload})
	if err != nil {
		log.Error("ws push marshal failed", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.buckets[userID] {
		if c == skip {
			continue
		}
		c.enqueue(data)
	}
}

// ConnectionCount 用户当前在线连接数
func (h *Hub) ConnectionCount(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.buckets[userID])
}
