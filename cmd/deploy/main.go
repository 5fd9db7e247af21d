// main.go

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jacl-coder/EpicGame-Server/config"
	"github.com/jacl-coder/EpicGame-Server/internal/deploy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()
	log.SetOutput(os.Stdout)

	deploy.Exit(func(ctx context.Context) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		session, closeSession, err := deploy.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSession()

		artifact, err := deploy.LoadArtifact(cfg.Chain.ArtifactPath)
		if err != nil {
			return err
		}

		contract, err := session.Deploy(ctx, artifact, deploy.DefaultParams())
		if err != nil {
			return err
		}

		if err := session.Mint(ctx, contract, 2); err != nil {
			return err
		}

		if err := session.Attack(ctx, contract); err != nil {
			return err
		}
		log.Println("First attack.")

		if err := session.Attack(ctx, contract); err != nil {
			return err
		}
		log.Println("Second attack.")

		log.Println("Done!")
		return nil
	})
}
