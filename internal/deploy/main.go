package deploy

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Main 运行脚本：成功返回 0，失败记录错误后返回 1
func Main(run func(ctx context.Context) error) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Println(err)
		return 1
	}
	return 0
}

// Exit 以 Main 的返回值退出进程
func Exit(run func(ctx context.Context) error) {
	os.Exit(Main(run))
}
