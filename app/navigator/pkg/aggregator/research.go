package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/jsonx"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search"
)

// pass 一次“搜索 + 重排”
type pass struct {
	name   string
	query  string
	prompt string // 后面紧跟搜索结果 JSON
}

func passes(city string, days int) []pass {
	return []pass{
		{
			name:   "guides",
			query:  fmt.Sprintf("%s%d天旅游攻略 最佳路线", city, days),
			prompt: fmt.Sprintf("请从以下搜索结果中筛选出最相关的%d条%s%d天旅游攻略信息，并按照相关性排序：\n", days, city, days),
		},
		{
			name:   "attractions",
			query:  fmt.Sprintf("%s 必去景点 top10 著名景点", city),
			prompt: fmt.Sprintf("请从以下搜索结果中筛选出最多%d条%s最值得去的景点信息，并按照热门程度排序：\n", days, city),
		},
		{
			name:   "must_eat",
			query:  fmt.Sprintf("%s 必吃美食 特色小吃 推荐", city),
			prompt: fmt.Sprintf("请从以下搜索结果中筛选出最多%d条%s最具特色的美食信息，并按照推荐度排序：\n", days, city),
		},
		{
			name:   "local_food",
			query:  fmt.Sprintf("%s 特色美食 地方小吃 传统美食", city),
			prompt: fmt.Sprintf("请从以下搜索结果中筛选出最多%d条%s独特的地方特色美食信息，并按照特色程度排序：\n", days, city),
		},
	}
}

// Research 并发执行四次搜索与重排，某一类失败时该类为空列表
func (a *Aggregator) Research(ctx context.Context, city string, days int) model.CategoryBundle {
	return a.research(ctx, logger.Log.WithFields(logrus.Fields{"city": city, "days": days}), city, days)
}

func (a *Aggregator) research(ctx context.Context, log *logrus.Entry, city string, days int) model.CategoryBundle {
	ps := passes(city, days)
	results := make([][]model.RankedResult, len(ps))

	g := new(errgroup.Group)
	for i, p := range ps {
		g.Go(func() error {
			results[i] = a.searchAndRerank(ctx, log.WithField("pass", p.name), p, days)
			return nil
		})
	}
	_ = g.Wait()

	bundle := model.NewCategoryBundle()
	bundle.Guides = results[0]
	bundle.Attractions = results[1]
	bundle.MustEat = results[2]
	bundle.LocalFood = results[3]
	return bundle
}

func (a *Aggregator) searchAndRerank(ctx context.Context, log *logrus.Entry, p pass, days int) []model.RankedResult {
	ranked := []model.RankedResult{}

	resp, err := a.searcher.Search(ctx, &search.Request{Query: p.query, MaxResults: a.opts.MaxResults})
	metrics.SearchRequestsTotal.WithLabelValues("web", metrics.Status(err)).Inc()
	if err != nil {
		degrade(log, "search", "搜索失败 [%s]: %v", p.query, err)
		return ranked
	}

	candidates := toSearchResults(resp)
	if len(candidates) == 0 {
		log.Warnf("搜索无结果 [%s]", p.query)
		return ranked
	}

	data, _ := json.MarshalIndent(candidates, "", "  ")
	content, err := a.agents.Reranker.Chat(ctx, p.prompt+string(data))
	if err != nil {
		degrade(log, "rerank", "重排调用失败: %v", err)
		return ranked
	}

	ranked, err = parseRanked(content)
	if err != nil {
		degrade(log, "rerank", "重排结果解析失败: %v, 原始内容: %s", err, content)
		return []model.RankedResult{}
	}
	if len(ranked) > days {
		ranked = ranked[:days]
	}
	backfill(ranked, candidates)

	if a.opts.FetchPages {
		a.fillLongDescriptions(ctx, log, ranked)
	}
	log.Debugf("重排完成，保留 %d 条", len(ranked))
	return ranked
}

func toSearchResults(resp *search.Response) []model.SearchResult {
	if resp == nil {
		return nil
	}
	out := make([]model.SearchResult, 0, len(resp.Results))
	for i, r := range resp.Results {
		out = append(out, model.SearchResult{
			ResultID:    i + 1,
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Content,
		})
	}
	return out
}

// parseRanked 接受数组，或带 results / related_results / 任意数组字段的对象
func parseRanked(content string) ([]model.RankedResult, error) {
	raw, err := jsonx.Extract(content)
	if err != nil {
		return nil, err
	}

	var list []model.RankedResult
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, err
		}
		return nonNil(list), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k != "results" && k != "related_results" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{"results", "related_results"}, keys...)

	for _, k := range keys {
		v, ok := obj[k]
		if !ok || !strings.HasPrefix(strings.TrimSpace(string(v)), "[") {
			continue
		}
		if err := json.Unmarshal(v, &list); err == nil {
			return nonNil(list), nil
		}
	}

	// 只有一条结果时模型有时直接返回对象本身
	var single model.RankedResult
	if err := json.Unmarshal([]byte(raw), &single); err == nil && (single.Title != "" || single.Description != "") {
		return []model.RankedResult{single}, nil
	}
	return nil, fmt.Errorf("unexpected rerank structure: %s", raw)
}

// backfill 按 result_id 补全模型遗漏的字段
func backfill(ranked []model.RankedResult, candidates []model.SearchResult) {
	for i := range ranked {
		id := int(ranked[i].ResultID)
		if id < 1 || id > len(candidates) {
			continue
		}
		c := candidates[id-1]
		if ranked[i].URL == "" {
			ranked[i].URL = c.URL
		}
		if ranked[i].Title == "" {
			ranked[i].Title = c.Title
		}
		if ranked[i].Description == "" {
			ranked[i].Description = c.Description
		}
	}
}

func (a *Aggregator) fillLongDescriptions(ctx context.Context, log *logrus.Entry, ranked []model.RankedResult) {
	g := new(errgroup.Group)
	for i := range ranked {
		if ranked[i].URL == "" {
			continue
		}
		g.Go(func() error {
			text, err := a.fetchPage(ctx, ranked[i].URL)
			if err != nil {
				log.Debugf("抓取正文失败 [%s]: %v", ranked[i].URL, err)
				return nil
			}
			ranked[i].LongDescription = truncateRunes(strings.TrimSpace(text), a.opts.PageMaxChars)
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Aggregator) readPage(_ context.Context, url string) (string, error) {
	timeout := a.opts.PageTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func nonNil(list []model.RankedResult) []model.RankedResult {
	if list == nil {
		return []model.RankedResult{}
	}
	return list
}
