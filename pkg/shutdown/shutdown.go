package shutdown

import (
	"context"
	"sync"

	"github.com/tradebot/gomon/pkg/logger"
)

// Handler 关闭处理函数
type Handler func(ctx context.Context)

// Manager 优雅关闭管理器：集中注册回调，退出时统一执行
type Manager struct {
	callbacks []Handler
	mu        sync.Mutex
	once      sync.Once
}

// NewManager 创建新的关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册关闭回调
func (m *Manager) OnShutdown(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, handler)
}

// Shutdown 执行所有关闭回调（阻塞直到全部完成或 ctx 超时）
// ctx 应该带超时，避免无限等待
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.mu.Lock()
		callbacks := m.callbacks
		m.mu.Unlock()

		if len(callbacks) == 0 {
			return
		}

		var wg sync.WaitGroup
		for _, cb := range callbacks {
			wg.Add(1)
			go func(h Handler) {
				defer wg.Done()
				h(ctx)
			}(cb)
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			logger.Warnf("shutdown: 超时，仍有回调未完成")
		}
	})
}
