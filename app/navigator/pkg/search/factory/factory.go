package factory

import (
	"fmt"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/searxng"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/serper"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/tavily"
)

// provider 三家客户端都同时实现了网页与图片搜索
type provider interface {
	search.Searcher
	search.ImageSearcher
}

// NewSearcher 根据 search.provider 创建网页搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	return newProvider(cfg, cfg.Search.Provider)
}

// NewImageSearcher 根据 image.provider 创建图片搜索实例
func NewImageSearcher(cfg *config.Config) (search.ImageSearcher, error) {
	return newProvider(cfg, cfg.Image.Provider)
}

func newProvider(cfg *config.Config, name string) (provider, error) {
	timeout := config.Duration(cfg.Search.Timeout)

	switch name {
	case "serper":
		if cfg.Search.Serper.APIKey == "" {
			return nil, fmt.Errorf("serper api key is missing")
		}
		return serper.NewClient(cfg.Search.Serper.APIKey, cfg.Search.Serper.BaseURL, timeout), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey, cfg.Search.Tavily.BaseURL, timeout), nil

	case "searxng":
		if cfg.Search.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", name)
	}
}
