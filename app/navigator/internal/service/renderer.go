package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/pdf"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/render"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/storage"
)

// RendererService 行程渲染 HTTP 接口
type RendererService struct {
	r ItineraryRenderer
}

func NewRendererService(r ItineraryRenderer) *RendererService {
	return &RendererService{r: r}
}

// RegisterHTTP 注册路由
func (s *RendererService) RegisterHTTP(srv *http.Server) {
	r := srv.Route("/")
	r.GET("/", s.Index)
	r.POST("/generate_itinerary_html", s.GenerateHTML)
	r.POST("/generate_itinerary_pdf", s.GeneratePDF)
}

func (s *RendererService) Index(ctx http.Context) error {
	return ctx.String(200, "Welcome to the Travel Itinerary Generator!")
}

// HTMLReply /generate_itinerary_html 的响应
type HTMLReply struct {
	FilePath    string `json:"file_path"`
	HTMLContent string `json:"html_content"`
}

type renderRequest struct {
	city string
	days int
}

// bindRender days 缺省为 1
func bindRender(ctx http.Context) (*renderRequest, error) {
	var req CityDaysRequest
	if err := ctx.Bind(&req); err != nil || req.City == nil || *req.City == "" {
		return nil, errors.BadRequest("INVALID_REQUEST", "请求必须包含city和days参数")
	}
	days := 1
	if len(req.Days) > 0 && string(req.Days) != "null" {
		d, err := parseDays(req.Days)
		if err != nil {
			return nil, errors.BadRequest("INVALID_DAYS", "days参数必须为整数")
		}
		days = d
	}
	return &renderRequest{city: *req.City, days: days}, nil
}

// GenerateHTML POST /generate_itinerary_html
func (s *RendererService) GenerateHTML(ctx http.Context) error {
	req, err := bindRender(ctx)
	if err != nil {
		return rendererError(ctx, err)
	}

	out, err := run(ctx, req, func(c context.Context, in any) (any, error) {
		p := in.(*renderRequest)
		res, err := s.r.Render(c, p.city, p.days)
		if err != nil {
			return nil, renderErr(p, err)
		}
		return res, nil
	})
	if err != nil {
		return rendererError(ctx, err)
	}

	res := out.(*render.Result)
	return ctx.JSON(200, &HTMLReply{FilePath: res.FilePath, HTMLContent: res.HTML})
}

// GeneratePDF POST /generate_itinerary_pdf
func (s *RendererService) GeneratePDF(ctx http.Context) error {
	req, err := bindRender(ctx)
	if err != nil {
		return rendererError(ctx, err)
	}

	out, err := run(ctx, req, func(c context.Context, in any) (any, error) {
		p := in.(*renderRequest)
		res, err := s.r.RenderPDF(c, p.city, p.days)
		if err != nil {
			return nil, renderErr(p, err)
		}
		return res, nil
	})
	if err != nil {
		return rendererError(ctx, err)
	}

	res := out.(*render.PDFResult)
	ctx.Response().Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	return ctx.Blob(200, "application/pdf", res.PDF)
}

// renderErr 把领域错误映射为 kratos 错误
func renderErr(p *renderRequest, err error) error {
	switch {
	case stderrors.Is(err, storage.ErrNotFound):
		return errors.NotFound("BUNDLE_NOT_FOUND",
			fmt.Sprintf("%s 不存在，请先生成该城市的旅游信息！", storage.BundleFileName(p.city, p.days)))
	case stderrors.Is(err, storage.ErrBadFormat):
		return errors.BadRequest("BUNDLE_MALFORMED",
			fmt.Sprintf("%s 格式错误，请检查文件内容！", storage.BundleFileName(p.city, p.days)))
	case stderrors.Is(err, storage.ErrInvalidKey):
		return errors.BadRequest("INVALID_REQUEST", err.Error())
	case stderrors.Is(err, pdf.ErrConversion):
		return errors.InternalServer("PDF_CONVERSION", "HTML转换为PDF时发生错误: "+err.Error())
	default:
		return errors.InternalServer("INTERNAL", err.Error())
	}
}

func rendererError(ctx http.Context, err error) error {
	code, msg := statusOf(err)
	return ctx.JSON(code, map[string]string{"error": msg})
}
