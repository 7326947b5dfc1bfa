package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/jsonx"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

// extractedItem 模型提取出的景点/美食/店铺
type extractedItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Describe    string `json:"describe"`
}

func (it extractedItem) text() string {
	if it.Description != "" {
		return it.Description
	}
	return it.Describe
}

type attractionsReply struct {
	Attractions []extractedItem `json:"attractions"`
}

type foodsReply struct {
	Foods    []extractedItem `json:"foods"`
	FoodShop []extractedItem `json:"food_shop"`
}

func corpus(groups ...[]model.RankedResult) string {
	var parts []string
	for _, group := range groups {
		for _, r := range group {
			if r.Description != "" {
				parts = append(parts, r.Description)
			}
			if r.LongDescription != "" {
				parts = append(parts, r.LongDescription)
			}
		}
	}
	return strings.Join(parts, " ")
}

func (a *Aggregator) extractAttractions(ctx context.Context, log *logrus.Entry, info model.CategoryBundle) []extractedItem {
	text := corpus(info.Attractions, info.Guides)
	if text == "" {
		log.Warn("没有可用于提取景点的文本")
		return nil
	}

	content, err := a.agents.Attraction.Chat(ctx, fmt.Sprintf(attractionsPromptTpl, text))
	if err != nil {
		degrade(log, "extract_attractions", "景点提取调用失败: %v", err)
		return nil
	}

	var reply attractionsReply
	if err := jsonx.Decode(content, &reply); err != nil {
		degrade(log, "extract_attractions", "景点提取结果解析失败: %v, 原始内容: %s", err, content)
		return nil
	}
	return named(reply.Attractions)
}

func (a *Aggregator) extractFoods(ctx context.Context, log *logrus.Entry, info model.CategoryBundle) ([]extractedItem, []extractedItem) {
	text := corpus(info.MustEat, info.LocalFood)
	if text == "" {
		log.Warn("没有可用于提取美食的文本")
		return nil, nil
	}

	content, err := a.agents.Food.Chat(ctx, fmt.Sprintf(foodsPromptTpl, text))
	if err != nil {
		degrade(log, "extract_foods", "美食提取调用失败: %v", err)
		return nil, nil
	}

	var reply foodsReply
	if err := jsonx.Decode(content, &reply); err != nil {
		degrade(log, "extract_foods", "美食提取结果解析失败: %v, 原始内容: %s", err, content)
		return nil, nil
	}
	return named(reply.Foods), named(reply.FoodShop)
}

// baseRoute 生成基础路线，结果按纯文本保存
func (a *Aggregator) baseRoute(ctx context.Context, log *logrus.Entry, city string, days int, info model.CategoryBundle) string {
	data, _ := json.MarshalIndent(map[string]any{
		"city":        city,
		"days":        days,
		"travel_info": info,
	}, "", "  ")

	content, err := a.agents.BaseGuide.Chat(ctx, fmt.Sprintf(baseGuidePromptTpl, city, days, data))
	if err != nil {
		degrade(log, "base_route", "基础路线生成失败: %v", err)
		return ""
	}
	return baseGuideText(content)
}

// baseGuideText 取 base_guide 字段；不是字符串时保留其 JSON 文本，无法解析时保留原文
func baseGuideText(content string) string {
	var reply map[string]json.RawMessage
	if err := jsonx.Decode(content, &reply); err != nil {
		return strings.TrimSpace(content)
	}
	v, ok := reply["base_guide"]
	if !ok {
		return strings.TrimSpace(content)
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

func named(items []extractedItem) []extractedItem {
	out := items[:0]
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name != "" {
			out = append(out, it)
		}
	}
	return out
}
