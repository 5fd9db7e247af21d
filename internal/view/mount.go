// Package view 角色列表和竞技场视图：挂载时各自构造合约客户端、读取合约状态并保存为视图状态。
package view

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/jacl-coder/EpicGame-Server/internal/chain"
)

// ErrUnavailable 合约客户端不可用（没有钱包或构造失败）
var ErrUnavailable = errors.New("chain integration unavailable")

// mount 视图生命周期：构造客户端 -> 读取数据，Close 后到达的结果一律丢弃
type mount struct {
	id      string
	kind    string
	factory chain.Factory

	mu     sync.RWMutex
	client chain.GameContract

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newMount(parent context.Context, kind string, factory chain.Factory) *mount {
	ctx, cancel := context.WithCancel(parent)
	return &mount{
		id:      uuid.New().String(),
		kind:    kind,
		factory: factory,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// start 只执行一次：构造客户端成功后调用 ready
func (m *mount) start(ready func(client chain.GameContract)) <-chan struct{} {
	m.once.Do(func() {
		go func() {
			defer close(m.done)

			client, err := m.factory(m.ctx)
			if err != nil {
				m.logf("合约客户端不可用: %v", err)
				return
			}
			if !m.setClient(client) {
				return
			}
			ready(client)
		}()
	})
	return m.done
}

func (m *mount) setClient(client chain.GameContract) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		m.logf("视图已卸载，丢弃合约客户端")
		closeClient(client)
		return false
	}
	m.client = client
	return true
}

// commit 在视图仍存活时写入状态
func (m *mount) commit(apply func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		m.logf("视图已卸载，丢弃结果")
		return false
	}
	apply()
	return true
}

func (m *mount) currentClient() chain.GameContract {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// ID 视图实例ID
func (m *mount) ID() string {
	return m.id
}

// Done 初始化（无论成功与否）完成后关闭
func (m *mount) Done() <-chan struct{} {
	return m.done
}

// Ready 合约客户端是否可用
func (m *mount) Ready() bool {
	return m.currentClient() != nil
}

// Close 卸载视图
func (m *mount) Close() {
	m.mu.Lock()
	m.cancel()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client != nil {
		closeClient(client)
	}
}

func (m *mount) logf(format string, args ...interface{}) {
	log.Printf("[%s %s] "+format, append([]interface{}{m.kind, m.id[:8]}, args...)...)
}

func closeClient(client chain.GameContract) {
	if closer, ok := client.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("关闭合约客户端失败: %v", err)
		}
	}
}
