package main

import (
	"context"
	"flag"
	"log"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/bootstrap"
	"github.com/iWorld-y/travel_navigator/app/navigator/internal/server"
	"github.com/iWorld-y/travel_navigator/app/navigator/internal/service"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 服务名称
	Name = "extractor"
	// Version 服务版本号
	Version string

	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	cfg, err := bootstrap.Setup(flagconf)
	if err != nil {
		log.Fatal(err)
	}
	logger.Log.Info("启动意图提取服务...")

	ex, err := bootstrap.NewExtractor(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatalf("初始化意图提取器失败: %v", err)
	}
	svc := service.NewExtractorService(ex)

	app := server.NewApp(Name, Version, server.NewLogger(Name, Version), cfg.Server.Extractor, cfg.Server.Timeout, svc)
	if err := app.Run(); err != nil {
		logger.Log.Errorf("服务退出: %v", err)
	}
}
