package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/llm"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/pdf"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/storage"
)

//go:embed templates/*
var templates embed.FS

var reportTmpl = template.Must(template.ParseFS(templates, "templates/report.html.tmpl"))

// 模型调用失败时行程部分只显示这一段
const itineraryUnavailable = "行程生成失败，请稍后重试。以下为根据已收集信息整理的推荐。"

// Options 渲染参数
type Options struct {
	OutputDir   string
	ImageWidth  int
	ImageHeight int
}

// Renderer 读取旅游信息，生成行程 HTML/PDF
type Renderer struct {
	store     storage.BundleStore
	agent     llm.Chatter
	converter pdf.Converter
	opts      Options
}

// Result HTML 渲染结果
type Result struct {
	HTML     string
	FilePath string
}

// PDFResult PDF 渲染结果
type PDFResult struct {
	PDF      []byte
	FilePath string
	FileName string
}

// New 创建 Renderer，converter 为 nil 时不支持 PDF
func New(store storage.BundleStore, agent llm.Chatter, converter pdf.Converter, opts Options) *Renderer {
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = 300
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = 200
	}
	return &Renderer{store: store, agent: agent, converter: converter, opts: opts}
}

// OutputFileName 攻略文件名，例如 成都3天旅游攻略.html
func OutputFileName(city string, days int, ext string) string {
	return fmt.Sprintf("%s%d天旅游攻略.%s", city, days, ext)
}

// Render 生成行程 HTML 并写入输出目录。
// 旅游信息不存在时返回 storage.ErrNotFound，格式错误时返回 storage.ErrBadFormat。
func (r *Renderer) Render(ctx context.Context, city string, days int) (*Result, error) {
	bundle, err := r.store.Get(ctx, city, days)
	if err != nil {
		return nil, err
	}

	itinerary, err := r.agent.Chat(ctx, BuildPrompt(bundle, days))
	if err != nil {
		logger.Log.Errorf("行程生成失败 [%s%d天]: %v", city, days, err)
		metrics.DegradedTotal.WithLabelValues("itinerary").Inc()
		itinerary = itineraryUnavailable
	}

	html, err := Report(ParseItinerary(itinerary), bundle, r.opts)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(r.opts.OutputDir, OutputFileName(city, days, "html"))
	if err := writeFile(path, []byte(html)); err != nil {
		return nil, err
	}
	logger.Log.Infof("行程 HTML 已保存: %s", path)
	return &Result{HTML: html, FilePath: path}, nil
}

// RenderPDF 先生成 HTML，再转换为 PDF。转换失败时返回包装了 pdf.ErrConversion 的错误。
func (r *Renderer) RenderPDF(ctx context.Context, city string, days int) (*PDFResult, error) {
	res, err := r.Render(ctx, city, days)
	if err != nil {
		return nil, err
	}
	if r.converter == nil {
		return nil, fmt.Errorf("%w: 未配置 PDF 转换器", pdf.ErrConversion)
	}

	data, err := r.converter.Convert(ctx, res.HTML)
	if err != nil {
		logger.Log.Errorf("HTML转换为PDF时发生错误: %v", err)
		return nil, err
	}

	path := strings.TrimSuffix(res.FilePath, filepath.Ext(res.FilePath)) + ".pdf"
	if err := writeFile(path, data); err != nil {
		return nil, err
	}
	logger.Log.Infof("PDF 文件已生成: %s", path)
	return &PDFResult{PDF: data, FilePath: path, FileName: filepath.Base(path)}, nil
}

type reportData struct {
	Blocks      []Block
	Attractions []model.EnrichedEntity
	Foods       []model.EnrichedEntity
	ImageWidth  int
	ImageHeight int
}

// Report 生成完整的 HTML 文档
func Report(blocks []Block, bundle *model.TravelInfoBundle, opts Options) (string, error) {
	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, reportData{
		Blocks:      blocks,
		Attractions: bundle.Attractions,
		Foods:       bundle.Foods,
		ImageWidth:  opts.ImageWidth,
		ImageHeight: opts.ImageHeight,
	})
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
