package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/render"
)

// IntentExtractor 意图提取
type IntentExtractor interface {
	Extract(ctx context.Context, query string) model.TravelIntent
}

// BundleAggregator 旅游信息聚合
type BundleAggregator interface {
	Aggregate(ctx context.Context, city string, days int) (*model.TravelInfoBundle, error)
}

// ItineraryRenderer 行程渲染
type ItineraryRenderer interface {
	Render(ctx context.Context, city string, days int) (*render.Result, error)
	RenderPDF(ctx context.Context, city string, days int) (*render.PDFResult, error)
}

// CityDaysRequest 聚合与渲染接口的请求体，days 可以是数字或数字字符串
type CityDaysRequest struct {
	City *string         `json:"city"`
	Days json.RawMessage `json:"days"`
}

// parseDays 只接受正整数或其字符串形式
func parseDays(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing days")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != math.Trunc(n) || n < 1 || n > math.MaxInt32 {
			return 0, fmt.Errorf("days must be a positive integer: %v", n)
		}
		return int(n), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("days must be an integer: %s", raw)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("days must be an integer: %q", s)
	}
	if v < 1 {
		return 0, fmt.Errorf("days must be a positive integer: %d", v)
	}
	return v, nil
}

// run 通过 kratos 中间件链执行业务逻辑，panic 会被 recovery 转成 500 错误
func run(ctx http.Context, req any, fn func(context.Context, any) (any, error)) (any, error) {
	h := ctx.Middleware(fn)
	return h(ctx, req)
}

// statusOf 把错误转换为 HTTP 状态码和对外消息
func statusOf(err error) (int, string) {
	e := errors.FromError(err)
	if e == nil {
		return 200, ""
	}
	if e.Reason == errors.UnknownReason {
		logger.Log.Errorf("未分类错误: %v", err)
		return int(errors.UnknownCode), e.Message
	}
	return int(e.Code), e.Message
}
