package exporter

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDownloadTTL 下载令牌默认有效期
const DefaultDownloadTTL = 10 * time.Minute

// Download 待下载的导出文件
type Download struct {
	FilePath  string
	Filename  string
	ExpiresAt time.Time
}

// DownloadStore 一次性下载令牌（过期自动清理）
type DownloadStore struct {
	mu    sync.Mutex
	items map[string]Download
	now   func() time.Time
}

// NewDownloadStore 创建令牌存储
func NewDownloadStore() *DownloadStore {
	return &DownloadStore{items: make(map[string]Download), now: time.Now}
}

// Put 登记文件，返回令牌
func (s *DownloadStore) Put(filePath, filename string, ttl time.Duration) string {
	if ttl <= 0 {
		ttl = DefaultDownloadTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token := uuid.NewString()
	s.items[token] = Download{FilePath: filePath, Filename: filename, ExpiresAt: now.Add(ttl)}
	return token
}

// Take 取出并作废令牌；过期或不存在返回 false
func (s *DownloadStore) Take(token string) (Download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	d, ok := s.items[token]
	if !ok {
		return Download{}, false
	}
	delete(s.items, token)
	return d, true
}

// Len 未过期令牌数
func (s *DownloadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

func (s *DownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.ExpiresAt) {
			delete(s.items, k)
		}
	}
}
