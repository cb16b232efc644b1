// Package session 每位使用者各自的食譜與對話狀態
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// Session 單一使用者的對話；同一 session 的請求依序處理
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	conv       *dialogue.Conversation
	lastAccess time.Time
}

// Do 持有 session 鎖執行 fn
func (s *Session) Do(fn func(conv *dialogue.Conversation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.conv)
}

// Replace 換成新的對話，例如載入另一份食譜
func (s *Session) Replace(conv *dialogue.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv = conv
}

// Store 以 ID 保存 session，閒置超過 TTL 即移除
type Store struct {
	ttl         time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session

	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

// NewStore 建立 Store 並啟動過期清理
func NewStore(cfg config.SessionConfig) *Store {
	s := &Store{
		ttl:         cfg.TTL,
		maxSessions: cfg.MaxSessions,
		sessions:    make(map[string]*Session),
		done:        make(chan struct{}),
		now:         time.Now,
	}
	if cfg.CleanupInterval > 0 {
		go s.startCleanup(cfg.CleanupInterval)
	}
	return s
}

// Create 建立新的 session；已達上限且無過期項目可清時回傳 common.ErrSessionLimit
func (s *Store) Create(conv *dialogue.Conversation) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.cleanup()
		if len(s.sessions) >= s.maxSessions {
			common.LogWarn("session 數量已達上限", zap.Int("max_sessions", s.maxSessions))
			return nil, common.ErrSessionLimit
		}
	}

	now := s.now()
	sess := &Session{
		ID:         common.GenerateUUID(),
		CreatedAt:  now,
		conv:       conv,
		lastAccess: now,
	}
	s.sessions[sess.ID] = sess

	common.LogInfo("session 已建立",
		zap.String("session_id", sess.ID),
		zap.Int("active", len(s.sessions)),
	)
	return sess, nil
}

// Get 取得 session 並更新最後存取時間
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, common.ErrSessionNotFound
	}
	sess.lastAccess = now
	return sess, nil
}

// Delete 移除 session，回傳是否存在
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len 目前的 session 數
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastAccess) > s.ttl
}

func (s *Store) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cleanup()
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// cleanup 呼叫端持有鎖
func (s *Store) cleanup() int {
	now := s.now()
	count := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			count++
		}
	}
	if count > 0 {
		common.LogInfo("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int("remaining", len(s.sessions)),
		)
	}
	return count
}

// Close 停止清理協程
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
