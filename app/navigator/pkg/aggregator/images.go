package aggregator

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

// ImageQuery 实景图搜索词
func ImageQuery(city, name string) string {
	return fmt.Sprintf("%s %s 实景图", city, name)
}

// enrich 为每个条目查询一张图片，并发受限，结果保持原顺序
func (a *Aggregator) enrich(ctx context.Context, log *logrus.Entry, city string, items []extractedItem) []model.EnrichedEntity {
	out := make([]model.EnrichedEntity, len(items))

	g := new(errgroup.Group)
	g.SetLimit(a.opts.ImageConcurrency)
	for i, it := range items {
		out[i] = model.EnrichedEntity{Name: it.Name, Describe: it.text()}
		g.Go(func() error {
			out[i].ImageURL = a.lookupImage(ctx, log, city, it.Name)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// lookupImage 返回第一张图片地址，没有结果或出错时为空字符串。出错的查询不缓存。
func (a *Aggregator) lookupImage(ctx context.Context, log *logrus.Entry, city, name string) string {
	if a.images == nil {
		return ""
	}

	query := ImageQuery(city, name)
	if v, ok := a.imageCache.Get(query); ok {
		metrics.ImageCacheTotal.WithLabelValues("hit").Inc()
		return v.(string)
	}
	metrics.ImageCacheTotal.WithLabelValues("miss").Inc()

	images, err := a.images.SearchImages(ctx, query, 1)
	metrics.SearchRequestsTotal.WithLabelValues("image", metrics.Status(err)).Inc()
	if err != nil {
		degrade(log, "image", "搜索%s的图片时出错: %v", name, err)
		return ""
	}

	url := ""
	if len(images) > 0 {
		url = images[0].ImageURL
	}
	a.imageCache.Set(query, url, cache.DefaultExpiration)
	return url
}
