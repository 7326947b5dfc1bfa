package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Image       ImageConfig       `yaml:"image"`
	Research    ResearchConfig    `yaml:"research"`
	Storage     StorageConfig     `yaml:"storage"`
	Render      RenderConfig      `yaml:"render"`
	PDF         PDFConfig         `yaml:"pdf"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Timeout     int     `yaml:"timeout"` // 秒
	MaxRetries  int     `yaml:"max_retries"`
}

// SearchConfig 网页搜索配置
type SearchConfig struct {
	Provider   string        `yaml:"provider"` // serper / tavily / searxng
	MaxResults int           `yaml:"max_results"`
	Timeout    int           `yaml:"timeout"` // 秒
	Serper     SerperConfig  `yaml:"serper"`
	Tavily     TavilyConfig  `yaml:"tavily"`
	SearXNG    SearXNGConfig `yaml:"searxng"`
}

// ImageConfig 图片搜索配置，未设置 provider 时沿用 search.provider
type ImageConfig struct {
	Provider string `yaml:"provider"`
	CacheTTL int    `yaml:"cache_ttl"` // 秒，0 表示使用默认值
}

// SerperConfig Serper 配置
type SerperConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ResearchConfig 信息聚合流程配置
type ResearchConfig struct {
	FetchPages       bool `yaml:"fetch_pages"`
	PageTimeout      int  `yaml:"page_timeout"` // 秒
	PageMaxChars     int  `yaml:"page_max_chars"`
	ImageConcurrency int  `yaml:"image_concurrency"`
}

// StorageConfig 旅游信息存储配置
type StorageConfig struct {
	Driver string   `yaml:"driver"` // file / postgres
	Dir    string   `yaml:"dir"`
	DB     DBConfig `yaml:"db"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RenderConfig 攻略渲染配置
type RenderConfig struct {
	OutputDir   string `yaml:"output_dir"`
	ImageWidth  int    `yaml:"image_width"`
	ImageHeight int    `yaml:"image_height"`
}

// PDFConfig PDF 转换配置
type PDFConfig struct {
	Binary  string `yaml:"binary"`
	Timeout int    `yaml:"timeout"` // 秒
}

// ServerConfig 各服务监听地址
type ServerConfig struct {
	Extractor  ServiceAddr `yaml:"extractor"`
	Aggregator ServiceAddr `yaml:"aggregator"`
	Renderer   ServiceAddr `yaml:"renderer"`
	Timeout    string      `yaml:"timeout"`
}

// ServiceAddr 单个服务的 HTTP 与 gRPC 地址，gRPC 为空时不启动
type ServiceAddr struct {
	HTTP string `yaml:"http"`
	GRPC string `yaml:"grpc"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // 天
}

// ConcurrencyConfig LLM 调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置，${VAR} 形式的值从环境变量展开
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析 YAML 配置并补全默认值
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 120
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "serper"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 10
	}
	if c.Image.Provider == "" {
		c.Image.Provider = c.Search.Provider
	}
	if c.Image.CacheTTL <= 0 {
		c.Image.CacheTTL = 24 * 3600
	}
	if c.Research.PageTimeout <= 0 {
		c.Research.PageTimeout = 30
	}
	if c.Research.PageMaxChars <= 0 {
		c.Research.PageMaxChars = 2000
	}
	if c.Research.ImageConcurrency <= 0 {
		c.Research.ImageConcurrency = 4
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "storage"
	}
	if c.Storage.DB.Port == 0 {
		c.Storage.DB.Port = 5432
	}
	if c.Render.OutputDir == "" {
		c.Render.OutputDir = "output"
	}
	if c.Render.ImageWidth <= 0 {
		c.Render.ImageWidth = 300
	}
	if c.Render.ImageHeight <= 0 {
		c.Render.ImageHeight = 200
	}
	if c.PDF.Binary == "" {
		c.PDF.Binary = "wkhtmltopdf"
	}
	if c.PDF.Timeout <= 0 {
		c.PDF.Timeout = 60
	}
	if c.Server.Extractor.HTTP == "" {
		c.Server.Extractor.HTTP = "0.0.0.0:5001"
	}
	if c.Server.Aggregator.HTTP == "" {
		c.Server.Aggregator.HTTP = "0.0.0.0:5002"
	}
	if c.Server.Renderer.HTTP == "" {
		c.Server.Renderer.HTTP = "0.0.0.0:5004"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
}

// Duration 将秒数转换为 time.Duration
func Duration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// ValidateLLM 校验 LLM 配置，三个服务都依赖它
func (c *Config) ValidateLLM() error {
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("配置错误: 未设置 llm.base_url")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 llm.api_key")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("配置错误: 未设置 llm.model")
	}
	return nil
}

// ValidateStorage 校验存储配置
func (c *Config) ValidateStorage() error {
	switch c.Storage.Driver {
	case "file":
		return nil
	case "postgres":
		if c.Storage.DB.Host == "" || c.Storage.DB.Name == "" {
			return fmt.Errorf("配置错误: postgres 存储需要 storage.db.host 和 storage.db.name")
		}
		return nil
	default:
		return fmt.Errorf("配置错误: 未知的存储类型 %q", c.Storage.Driver)
	}
}
