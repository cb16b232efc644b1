// Package queue 以固定數量的 worker 執行模型請求，限制同時對外的呼叫數
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 隊列已滿
	ErrQueueFull = errors.New("queue: queue is full")
	// ErrClosed 隊列已關閉
	ErrClosed = errors.New("queue: manager is closed")
)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器
type Manager struct {
	provider  provider.Provider
	queue     chan *Request
	done      chan struct{}
	workers   int
	maxSize   int
	processed int64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewManager 創建隊列管理器並啟動 worker
func NewManager(p provider.Provider, workers, maxSize int) *Manager {
	if workers <= 0 {
		workers = 1
	}
	if maxSize <= 0 {
		maxSize = workers
	}
	m := &Manager{
		provider: p,
		queue:    make(chan *Request, maxSize),
		done:     make(chan struct{}),
		workers:  workers,
		maxSize:  maxSize,
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.work()
	}
	return m
}

func (m *Manager) work() {
	defer m.wg.Done()
	for {
		select {
		case req := <-m.queue:
			m.process(req)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) process(req *Request) {
	defer atomic.AddInt64(&m.processed, 1)

	// 排隊期間呼叫端已放棄
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}
	resp, err := m.provider.Generate(req.Context, req.Request)
	req.Result <- Result{Response: resp, Error: err}
}

// Submit 排入請求並等待結果
func (m *Manager) Submit(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	result, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}
	select {
	case r := <-result:
		return r.Response, r.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Enqueue 將請求加入隊列，滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (chan Result, error) {
	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case <-m.done:
		return nil, ErrClosed
	default:
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrClosed
	default:
		return nil, ErrQueueFull
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 停止 worker；尚未處理的請求由呼叫端的 context 結束等待
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
	m.wg.Wait()
}
