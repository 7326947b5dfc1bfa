package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

// ExtractRequest 意图提取请求
type ExtractRequest struct {
	Query *string `json:"query"`
}

// ExtractorService 意图提取 HTTP 接口
type ExtractorService struct {
	ex IntentExtractor
}

func NewExtractorService(ex IntentExtractor) *ExtractorService {
	return &ExtractorService{ex: ex}
}

// RegisterHTTP 注册路由
func (s *ExtractorService) RegisterHTTP(srv *http.Server) {
	r := srv.Route("/")
	r.GET("/", s.Index)
	r.POST("/extract_travel_info", s.ExtractTravelInfo)
}

func (s *ExtractorService) Index(ctx http.Context) error {
	return ctx.String(200, "欢迎使用旅游信息提取服务！请使用 POST 请求访问 /extract_travel_info 并提供 'query' 参数。")
}

// ExtractTravelInfo POST /extract_travel_info
func (s *ExtractorService) ExtractTravelInfo(ctx http.Context) error {
	var req ExtractRequest
	if err := ctx.Bind(&req); err != nil || req.Query == nil {
		return extractorError(ctx, errors.BadRequest("INVALID_REQUEST", "请求数据无效"))
	}

	out, err := run(ctx, &req, func(c context.Context, in any) (any, error) {
		intent := s.ex.Extract(c, *in.(*ExtractRequest).Query)
		return &intent, nil
	})
	if err != nil {
		return extractorError(ctx, errors.InternalServer("INTERNAL", "服务器内部错误: "+errors.FromError(err).Message))
	}
	return ctx.JSON(200, out.(*model.TravelIntent))
}

func extractorError(ctx http.Context, err error) error {
	code, msg := statusOf(err)
	return ctx.JSON(code, map[string]string{"error": msg})
}
