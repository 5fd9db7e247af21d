// main.go

package main

import (
	"flag"
	"log"
	"os"
	"os/exec"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	reset := flag.Bool("reset", false, "初始化前先清空交易流水")
	flag.Parse()

	log.Println("🎮 EpicGame 完整设置")
	log.Println("================================")

	// 步骤1: 重置数据库（可选）
	if *reset {
		log.Println("📋 步骤 1/3: 重置数据库...")
		if err := runCommand("go", "run", "./cmd/dbmanager", "-action=reset", "-config="+*configPath); err != nil {
			log.Fatalf("重置数据库失败: %v", err)
		}
	} else {
		log.Println("📋 步骤 1/3: 跳过数据库重置")
	}

	// 步骤2: 初始化数据库表结构
	log.Println("📋 步骤 2/3: 初始化数据库表结构...")
	if err := runCommand("go", "run", "./cmd/dbmanager", "-action=init", "-config="+*configPath); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 步骤3: 部署合约并完成一轮铸造和攻击
	log.Println("📋 步骤 3/3: 部署合约...")
	if err := runCommand("go", "run", "./cmd/deploy", "-config="+*configPath); err != nil {
		log.Fatalf("部署合约失败: %v", err)
	}

	log.Println("")
	log.Println("🎉 设置完成！把部署地址写入 chain.contract_address 后启动服务器:")
	log.Println("  go run ./cmd/server")
}

// runCommand 运行命令
func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
