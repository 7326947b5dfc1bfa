package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/storage"
)

// ErrInvalidInput 城市或天数不合法
var ErrInvalidInput = errors.New("aggregator: invalid input")

// Options 聚合流程参数
type Options struct {
	MaxResults       int
	FetchPages       bool
	PageTimeout      time.Duration
	PageMaxChars     int
	ImageConcurrency int
	ImageCacheTTL    time.Duration
}

// OptionsFromConfig 从配置生成 Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxResults:       cfg.Search.MaxResults,
		FetchPages:       cfg.Research.FetchPages,
		PageTimeout:      config.Duration(cfg.Research.PageTimeout),
		PageMaxChars:     cfg.Research.PageMaxChars,
		ImageConcurrency: cfg.Research.ImageConcurrency,
		ImageCacheTTL:    config.Duration(cfg.Image.CacheTTL),
	}
}

// Aggregator 搜索、重排、提取并补充图片，最终生成 TravelInfoBundle
type Aggregator struct {
	searcher search.Searcher
	images   search.ImageSearcher
	agents   Agents
	store    storage.BundleStore
	opts     Options

	imageCache *cache.Cache
	fetchPage  func(ctx context.Context, url string) (string, error)
}

// New 创建 Aggregator，images 为 nil 时不查询图片，store 为 nil 时不持久化
func New(searcher search.Searcher, images search.ImageSearcher, agents Agents, store storage.BundleStore, opts Options) *Aggregator {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.ImageConcurrency <= 0 {
		opts.ImageConcurrency = 4
	}
	if opts.ImageCacheTTL <= 0 {
		opts.ImageCacheTTL = 24 * time.Hour
	}
	a := &Aggregator{
		searcher:   searcher,
		images:     images,
		agents:     agents,
		store:      store,
		opts:       opts,
		imageCache: cache.New(opts.ImageCacheTTL, 2*opts.ImageCacheTTL),
	}
	a.fetchPage = a.readPage
	return a
}

// Aggregate 生成并保存 (city, days) 的旅游信息。
// 只有输入不合法时返回错误，外部调用失败都降级为空值。
func (a *Aggregator) Aggregate(ctx context.Context, city string, days int) (*model.TravelInfoBundle, error) {
	if err := storage.ValidateKey(city, days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"city":   city,
		"days":   days,
	})
	start := time.Now()
	log.Info("开始聚合旅游信息")

	info := a.research(ctx, log, city, days)

	bundle := &model.TravelInfoBundle{
		City:       city,
		Days:       days,
		TravelInfo: &info,
	}

	var attractions, foods, foodShops []extractedItem
	g := new(errgroup.Group)
	g.Go(func() error {
		bundle.BaseRoute = a.baseRoute(ctx, log, city, days, info)
		return nil
	})
	g.Go(func() error {
		attractions = a.extractAttractions(ctx, log, info)
		return nil
	})
	g.Go(func() error {
		foods, foodShops = a.extractFoods(ctx, log, info)
		return nil
	})
	_ = g.Wait()

	bundle.Attractions = a.enrich(ctx, log, city, attractions)
	bundle.Foods = a.enrich(ctx, log, city, foods)
	bundle.FoodShops = a.enrich(ctx, log, city, foodShops)

	if a.store != nil {
		if err := a.store.Put(ctx, bundle); err != nil {
			log.Errorf("保存旅游信息失败: %v", err)
			metrics.DegradedTotal.WithLabelValues("store").Inc()
		}
	}

	log.Infof("聚合完成: 景点 %d 个, 美食 %d 个, 店铺 %d 个, 耗时 %s",
		len(bundle.Attractions), len(bundle.Foods), len(bundle.FoodShops), time.Since(start).Round(time.Millisecond))
	return bundle, nil
}

func degrade(log *logrus.Entry, stage string, format string, args ...any) {
	log.WithField("stage", stage).Warnf(format, args...)
	metrics.DegradedTotal.WithLabelValues(stage).Inc()
}
