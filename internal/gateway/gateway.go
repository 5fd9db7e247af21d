// Package gateway HTTP 网关：角色列表、铸造、Boss、排行榜和交易流水接口，以及竞技场推送服务的反向代理。
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jacl-coder/EpicGame-Server/config"
	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
)

// ServiceType 服务类型
type ServiceType string

const (
	// ServiceArena 竞技场推送服务
	ServiceArena ServiceType = "arena"
)

// ServiceInstance 服务实例
type ServiceInstance struct {
	ID        string
	Type      ServiceType
	URL       *url.URL
	Health    bool
	LastCheck time.Time
}

// Registry 铸造登记和攻击排行榜
type Registry interface {
	RecordMint(ctx context.Context, nft models.MintedNFT) error
	MintedBy(ctx context.Context, owner string) ([]models.MintedNFT, error)
	TopAttackers(ctx context.Context, limit int) ([]models.AttackerEntry, error)
	AttackerRank(ctx context.Context, account string) (int, error)
}

// Journal 交易流水
type Journal interface {
	RecordTransaction(ctx context.Context, rec models.TxRecord) error
	ListTransactions(ctx context.Context, limit int) ([]models.TxRecord, error)
}

// Options 网关依赖，Registry 和 Journal 可为空
type Options struct {
	Factory  chain.Factory
	Registry Registry
	Journal  Journal
}

// Gateway API网关
type Gateway struct {
	config     *config.Config
	factory    chain.Factory
	registry   Registry
	journal    Journal
	cache      *CacheMiddleware
	services   map[ServiceType][]*ServiceInstance
	mutex      sync.RWMutex
	httpServer *http.Server
	isRunning  bool
	shutdown   chan struct{}
}

// NewGateway 创建新的网关
func NewGateway(cfg *config.Config, opts Options) *Gateway {
	return &Gateway{
		config:   cfg,
		factory:  opts.Factory,
		registry: opts.Registry,
		journal:  opts.Journal,
		cache:    NewCacheMiddleware(),
		services: make(map[ServiceType][]*ServiceInstance),
		shutdown: make(chan struct{}),
	}
}

// Start 启动网关
func (g *Gateway) Start() error {
	if g.isRunning {
		return fmt.Errorf("网关已经在运行")
	}

	// 初始化HTTP服务器
	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", g.config.Server.GatewayPort),
		Handler: g.Handler(),
	}

	// 注册内部服务
	g.registerInternalServices()

	// 启动健康检查
	go g.healthCheck()

	// 启动HTTP服务器
	go func() {
		log.Printf("API网关启动，监听端口: %d", g.config.Server.GatewayPort)
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	g.isRunning = true
	return nil
}

// Stop 停止网关
func (g *Gateway) Stop() error {
	if !g.isRunning {
		return nil
	}

	close(g.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	g.isRunning = false
	log.Println("API网关已停止")
	return nil
}

// RegisterService 注册服务
func (g *Gateway) RegisterService(serviceType ServiceType, serviceURL string) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("无效的服务URL: %w", err)
	}

	instance := &ServiceInstance{
		ID:        fmt.Sprintf("%s-%d", serviceType, time.Now().UnixNano()),
		Type:      serviceType,
		URL:       parsedURL,
		Health:    true,
		LastCheck: time.Now(),
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.services[serviceType] = append(g.services[serviceType], instance)
	log.Printf("注册服务: %s, URL: %s", serviceType, serviceURL)

	return nil
}

// Handler 创建HTTP处理器
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	g.applyMiddleware(r)

	characterHandler := NewCharacterHandler(g.factory, g.registry, g.journal, g.cache, g.confirmTimeout())
	arenaHandler := NewArenaHandler(g.factory)
	playerHandler := NewPlayerHandler(g.registry)
	statsHandler := NewStatsHandler(g.registry, g.journal)
	pageHandler := NewPageHandler(g.factory)

	r.Route("/api", func(r chi.Router) {
		characterHandler.RegisterHandlers(r)
		arenaHandler.RegisterHandlers(r)
		playerHandler.RegisterHandlers(r)
		statsHandler.RegisterHandlers(r)
	})
	pageHandler.RegisterHandlers(r)

	// 竞技场推送服务（转发）
	r.Handle("/game/*", http.HandlerFunc(g.handleGameRequest))

	// 健康检查端点
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// applyMiddleware 应用中间件（从外到内）
func (g *Gateway) applyMiddleware(r chi.Router) {
	r.Use(NewLoggingMiddleware().Middleware)
	r.Use(NewSecurityMiddleware().Middleware)
	r.Use(NewCORSMiddleware().Middleware)
	r.Use(NewRateLimiter(60, 10).Middleware) // 每分钟60次请求，突发10次
	r.Use(g.cache.Middleware)
}

func (g *Gateway) confirmTimeout() time.Duration {
	if g.config.Chain.ConfirmTimeout > 0 {
		return g.config.Chain.ConfirmTimeout
	}
	return 2 * time.Minute
}

// handleGameRequest 转发到竞技场服务，去掉 /game 前缀
func (g *Gateway) handleGameRequest(w http.ResponseWriter, r *http.Request) {
	// 获取服务实例
	instance := g.getServiceInstance(ServiceArena)
	if instance == nil {
		sendErrorResponse(w, "服务不可用", http.StatusServiceUnavailable)
		return
	}

	// 创建反向代理
	proxy := httputil.NewSingleHostReverseProxy(instance.URL)

	// 修改请求
	r.URL.Path = "/" + strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/game"), "/")
	r.Header.Set("X-Forwarded-Host", r.Host)
	r.Header.Set("X-Origin-Host", instance.URL.Host)
	r.Host = instance.URL.Host

	// 转发请求
	proxy.ServeHTTP(w, r)
}

// getServiceInstance 获取健康的服务实例
func (g *Gateway) getServiceInstance(serviceType ServiceType) *ServiceInstance {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var healthyInstances []*ServiceInstance
	for _, instance := range g.services[serviceType] {
		if instance.Health {
			healthyInstances = append(healthyInstances, instance)
		}
	}

	if len(healthyInstances) == 0 {
		return nil
	}

	// 使用时间戳作为简单的轮询机制
	index := time.Now().UnixNano() % int64(len(healthyInstances))
	return healthyInstances[index]
}

// registerInternalServices 注册内部服务
func (g *Gateway) registerInternalServices() {
	arenaURL := fmt.Sprintf("http://localhost:%d", g.config.Server.ArenaPort)
	if err := g.RegisterService(ServiceArena, arenaURL); err != nil {
		log.Printf("注册服务失败: %v", err)
	}
}

// healthCheck 健康检查
func (g *Gateway) healthCheck() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.checkServicesHealth()
		case <-g.shutdown:
			return
		}
	}
}

// checkServicesHealth 检查服务健康状态
func (g *Gateway) checkServicesHealth() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	client := http.Client{
		Timeout: 2 * time.Second,
	}

	for serviceType, instances := range g.services {
		for _, instance := range instances {
			// 发送健康检查请求
			healthURL := *instance.URL
			healthURL.Path = "/health"

			resp, err := client.Get(healthURL.String())

			// 更新健康状态
			instance.LastCheck = time.Now()
			if err != nil || resp.StatusCode != http.StatusOK {
				if instance.Health {
					log.Printf("服务不健康: %s, ID: %s", serviceType, instance.ID)
					instance.Health = false
				}
			} else if !instance.Health {
				log.Printf("服务恢复健康: %s, ID: %s", serviceType, instance.ID)
				instance.Health = true
			}
			if resp != nil {
				resp.Body.Close()
			}
		}
	}
}
