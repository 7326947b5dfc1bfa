package service

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/aggregator"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
)

// AggregatorService 旅游信息聚合 HTTP 接口
type AggregatorService struct {
	agg BundleAggregator
}

func NewAggregatorService(agg BundleAggregator) *AggregatorService {
	return &AggregatorService{agg: agg}
}

// RegisterHTTP 注册路由
func (s *AggregatorService) RegisterHTTP(srv *http.Server) {
	r := srv.Route("/")
	r.GET("/", s.Index)
	r.POST("/get_travel_plan", s.GetTravelPlan)
}

func (s *AggregatorService) Index(ctx http.Context) error {
	return ctx.String(200, "欢迎使用旅游信息聚合服务！请使用 POST 请求访问 /get_travel_plan 并提供 'city' 和 'days' 参数。")
}

type planRequest struct {
	city string
	days int
}

// GetTravelPlan POST /get_travel_plan
func (s *AggregatorService) GetTravelPlan(ctx http.Context) error {
	var req CityDaysRequest
	if err := ctx.Bind(&req); err != nil || req.City == nil || len(req.Days) == 0 {
		return aggregatorError(ctx, errors.BadRequest("INVALID_REQUEST", "请求必须包含city和days参数"))
	}
	days, err := parseDays(req.Days)
	if err != nil {
		return aggregatorError(ctx, errors.BadRequest("INVALID_DAYS", "days参数必须为整数"))
	}

	out, err := run(ctx, &planRequest{city: *req.City, days: days}, func(c context.Context, in any) (any, error) {
		p := in.(*planRequest)
		bundle, err := s.agg.Aggregate(c, p.city, p.days)
		if err != nil {
			if stderrors.Is(err, aggregator.ErrInvalidInput) {
				return nil, errors.BadRequest("INVALID_REQUEST", err.Error())
			}
			return nil, err
		}
		return bundle, nil
	})
	if err != nil {
		e := errors.FromError(err)
		if e.Code >= 500 {
			logger.Log.Errorf("处理请求时发生错误: %v", err)
			return aggregatorError(ctx, errors.InternalServer("INTERNAL", "处理请求时发生错误: "+e.Message))
		}
		return aggregatorError(ctx, e)
	}

	return ctx.JSON(200, map[string]any{
		"status": "success",
		"data":   out,
	})
}

func aggregatorError(ctx http.Context, err error) error {
	code, msg := statusOf(err)
	return ctx.JSON(code, map[string]string{
		"status":  "error",
		"message": msg,
	})
}
