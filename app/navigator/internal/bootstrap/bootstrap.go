package bootstrap

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/aggregator"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/extractor"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/llm"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/pdf"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/render"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search/factory"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/storage"
)

// Setup 读取 .env 和配置文件，初始化日志与指标
func Setup(path string) (*config.Config, error) {
	// .env 不存在时忽略，环境变量照常生效
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	metrics.Register()
	return cfg, nil
}

func newLLM(ctx context.Context, cfg *config.Config) (*llmDeps, error) {
	if err := cfg.ValidateLLM(); err != nil {
		return nil, err
	}
	cm, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	limiter := llm.NewLimiter(cfg.Concurrency)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limiter.Limit(), limiter.Burst())
	return &llmDeps{cm: cm, opts: llm.AgentOptions(cfg, limiter)}, nil
}

// NewExtractor 组装意图提取器
func NewExtractor(ctx context.Context, cfg *config.Config) (*extractor.Extractor, error) {
	d, err := newLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return extractor.New(llm.NewAgent(d.cm, extractor.AgentName, extractor.SystemPrompt, d.opts...)), nil
}

// NewAggregator 组装信息聚合器，cleanup 释放存储连接
func NewAggregator(ctx context.Context, cfg *config.Config) (*aggregator.Aggregator, func(), error) {
	d, err := newLLM(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, nil, err
	}
	images, err := factory.NewImageSearcher(cfg)
	if err != nil {
		// 图片只是补充信息，缺失时照常聚合
		logger.Log.Warnf("图片搜索不可用，将不补充图片: %v", err)
		images = nil
	}
	store, cleanup, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	agg := aggregator.New(searcher, images, aggregator.NewAgents(d.cm, d.opts...), store, aggregator.OptionsFromConfig(cfg))
	return agg, cleanup, nil
}

// NewRenderer 组装行程渲染器
func NewRenderer(ctx context.Context, cfg *config.Config) (*render.Renderer, func(), error) {
	d, err := newLLM(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, cleanup, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	agent := llm.NewAgent(d.cm, render.AgentName, render.SystemPrompt, d.opts...)
	converter := pdf.NewWkhtmltopdf(cfg.PDF.Binary, config.Duration(cfg.PDF.Timeout))
	r := render.New(store, agent, converter, render.Options{
		OutputDir:   cfg.Render.OutputDir,
		ImageWidth:  cfg.Render.ImageWidth,
		ImageHeight: cfg.Render.ImageHeight,
	})
	return r, cleanup, nil
}

func newStore(cfg *config.Config) (storage.BundleStore, func(), error) {
	if err := cfg.ValidateStorage(); err != nil {
		return nil, nil, err
	}
	store, cleanup, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("无法初始化存储: %w", err)
	}
	logger.Log.Infof("旅游信息存储: %s", cfg.Storage.Driver)
	return store, cleanup, nil
}

type llmDeps struct {
	cm   model.BaseChatModel
	opts []llm.Option
}
