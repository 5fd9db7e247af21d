// main.go

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacl-coder/EpicGame-Server/config"
	"github.com/jacl-coder/EpicGame-Server/internal/chain"
	"github.com/jacl-coder/EpicGame-Server/internal/game"
	"github.com/jacl-coder/EpicGame-Server/internal/gateway"
	"github.com/jacl-coder/EpicGame-Server/internal/models"
	"github.com/jacl-coder/EpicGame-Server/pkg/db"
)

// stopper 可停止的服务
type stopper interface {
	Stop() error
}

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	serviceType := flag.String("service", "all", "服务类型 (arena, gateway, all)")
	flag.Parse()

	// 加载配置
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接（可选）
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	defer db.Close()

	// 初始化Redis连接（可选）
	if err := db.InitRedis(); err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}
	defer db.CloseRedis()

	cfg := &config.GlobalConfig
	factory := chain.NewFactory(cfg.Chain)

	var services []stopper
	switch *serviceType {
	case "arena":
		services = append(services, startArenaServer(cfg, factory))
	case "gateway":
		services = append(services, startGatewayServer(cfg, factory))
	case "all":
		services = append(services, startArenaServer(cfg, factory), startGatewayServer(cfg, factory))
		log.Println("所有服务已启动")
	default:
		log.Fatalf("未知的服务类型: %s", *serviceType)
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("接收到关闭信号，正在关闭服务器...")
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(); err != nil {
			log.Printf("关闭服务失败: %v", err)
		}
	}
	log.Println("服务器已安全关闭")
}

// startArenaServer 启动竞技场推送服务
func startArenaServer(cfg *config.Config, factory chain.Factory) stopper {
	var counter game.AttackCounter
	if db.RedisClient != nil {
		counter = models.NewRedisRegistry(db.RedisClient)
	}
	var journal game.TxJournal
	if db.DB != nil {
		journal = db.NewJournal(db.DB)
	}

	server := game.NewArenaServer(cfg, factory, game.NewLedgerRecorder(counter, journal))
	if err := server.Start(); err != nil {
		log.Fatalf("启动竞技场服务失败: %v", err)
	}

	log.Println("竞技场服务已启动")
	return server
}

// startGatewayServer 启动网关服务器
func startGatewayServer(cfg *config.Config, factory chain.Factory) stopper {
	opts := gateway.Options{Factory: factory}
	if db.RedisClient != nil {
		opts.Registry = models.NewRedisRegistry(db.RedisClient)
	}
	if db.DB != nil {
		opts.Journal = db.NewJournal(db.DB)
	}

	gatewayServer := gateway.NewGateway(cfg, opts)
	if err := gatewayServer.Start(); err != nil {
		log.Fatalf("启动网关服务失败: %v", err)
	}

	log.Println("网关服务已启动")
	return gatewayServer
}
