package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/bootstrap"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
)

var (
	flagconf  string
	flagquery string
	flagpdf   bool
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagquery, "query", "", "travel request, eg: -query 我想去成都玩三天")
	flag.BoolVar(&flagpdf, "pdf", false, "also convert the itinerary to PDF")
}

// 单机模式：提取意图 -> 聚合信息 -> 生成攻略，不经过 HTTP
func main() {
	flag.Parse()
	if flagquery == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := bootstrap.Setup(flagconf)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	ex, err := bootstrap.NewExtractor(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("初始化意图提取器失败: %v", err)
	}
	intent := ex.Extract(ctx, flagquery)
	if intent.NeedMoreInfo || intent.City == nil || intent.Days == nil {
		msg := "请提供目的地城市和游玩天数"
		if intent.Response != nil && *intent.Response != "" {
			msg = *intent.Response
		}
		fmt.Println(msg)
		os.Exit(1)
	}
	city, days := *intent.City, *intent.Days
	logger.Log.Infof("目的地: %s, 天数: %d", city, days)

	agg, cleanupAgg, err := bootstrap.NewAggregator(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("初始化信息聚合器失败: %v", err)
	}
	defer cleanupAgg()
	if _, err := agg.Aggregate(ctx, city, days); err != nil {
		logger.Log.Fatalf("聚合旅游信息失败: %v", err)
	}

	r, cleanupRender, err := bootstrap.NewRenderer(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("初始化行程渲染器失败: %v", err)
	}
	defer cleanupRender()

	res, err := r.Render(ctx, city, days)
	if err != nil {
		logger.Log.Fatalf("生成行程失败: %v", err)
	}
	fmt.Println(res.FilePath)

	if flagpdf {
		p, err := r.RenderPDF(ctx, city, days)
		if err != nil {
			logger.Log.Errorf("生成 PDF 失败: %v", err)
			return
		}
		fmt.Println(p.FilePath)
	}
}
