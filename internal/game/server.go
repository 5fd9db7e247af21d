// Package game 竞技场推送服务：每个 WebSocket 连接挂载自己的竞技场视图。
package game

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jacl-coder/EpicGame-Server/config"
	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
	"github.com/jacl-coder/EpicGame-Server/internal/view"
)

// AttackRecorder 记录攻击结果，未启用 Redis/PostgreSQL 时可为空
type AttackRecorder interface {
	RecordAttack(ctx context.Context, outcome models.AttackOutcome, blockNumber uint64)
}

// ArenaServer 竞技场推送服务器
type ArenaServer struct {
	config      *config.Config
	factory     chain.Factory
	recorder    AttackRecorder
	httpServer  *http.Server
	connections map[string]*ArenaConnection
	connMutex   sync.RWMutex

	// 关闭信号
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
}

// 空闲连接超时和清理间隔
const (
	idleTimeout   = 5 * time.Minute
	sweepInterval = 30 * time.Second
)

// ArenaConnection 一个连接及其竞技场视图
type ArenaConnection struct {
	ID    string
	Arena *view.Arena

	// 通信通道
	Send chan []byte

	lastActive atomic.Int64
	attackMu   sync.Mutex
}

// touch 记录最近一次收到消息或 pong 的时间
func (c *ArenaConnection) touch(now time.Time) {
	c.lastActive.Store(now.UnixNano())
}

// LastActive 最近一次活跃时间
func (c *ArenaConnection) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

// NewArenaServer 创建新的竞技场服务器
func NewArenaServer(cfg *config.Config, factory chain.Factory, recorder AttackRecorder) *ArenaServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &ArenaServer{
		config:      cfg,
		factory:     factory,
		recorder:    recorder,
		connections: make(map[string]*ArenaConnection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start 启动竞技场服务器
func (s *ArenaServer) Start() error {
	if s.isRunning {
		return fmt.Errorf("服务器已经在运行")
	}

	// 初始化HTTP服务器
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Server.ArenaPort),
		Handler: s.Handler(),
	}

	// 启动HTTP服务器
	go func() {
		log.Printf("竞技场服务器启动，监听端口: %d", s.config.Server.ArenaPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	// 启动空闲连接清理
	go s.connectionManager()

	s.isRunning = true
	return nil
}

// Stop 停止竞技场服务器
func (s *ArenaServer) Stop() error {
	if !s.isRunning {
		return nil
	}

	// 卸载所有视图
	s.cancel()

	// 关闭所有连接
	s.connMutex.Lock()
	for id, conn := range s.connections {
		close(conn.Send)
		conn.Arena.Close()
		delete(s.connections, id)
	}
	s.connMutex.Unlock()

	// 关闭HTTP服务器
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	s.isRunning = false
	log.Println("竞技场服务器已停止")
	return nil
}

// Handler 创建HTTP处理器
func (s *ArenaServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket 连接端点
	mux.HandleFunc("/ws", s.handleWSConnection)

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// connectionManager 定期清理空闲连接
func (s *ArenaServer) connectionManager() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.sweepIdle(now)
		case <-s.ctx.Done():
			return
		}
	}
}

// sweepIdle 关闭超过 idleTimeout 没有活动的连接
func (s *ArenaServer) sweepIdle(now time.Time) {
	s.connMutex.RLock()
	var idle []*ArenaConnection
	for _, c := range s.connections {
		if now.Sub(c.LastActive()) > idleTimeout {
			idle = append(idle, c)
		}
	}
	s.connMutex.RUnlock()

	for _, c := range idle {
		log.Printf("清理空闲连接: %s", c.ID)
		s.closeConnection(c)
	}
}

// ConnectionCount 当前连接数
func (s *ArenaServer) ConnectionCount() int {
	s.connMutex.RLock()
	defer s.connMutex.RUnlock()
	return len(s.connections)
}
