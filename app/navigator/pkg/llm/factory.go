package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
)

// NewChatModel 创建 OpenAI 兼容的对话模型（Qwen、DeepSeek 等）
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	temperature := cfg.Temperature
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: &temperature,
		Timeout:     config.Duration(cfg.Timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// NewLimiter Limit 设置为 RPM/60，Burst 设置为 QPS
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	limit := rate.Limit(float64(cfg.RPM) / 60.0)
	return rate.NewLimiter(limit, cfg.QPS)
}

// AgentOptions 由配置生成所有 Agent 共用的选项
func AgentOptions(cfg *config.Config, limiter *rate.Limiter) []Option {
	return []Option{
		WithLimiter(limiter),
		WithTimeout(config.Duration(cfg.LLM.Timeout)),
		WithMaxRetries(cfg.LLM.MaxRetries),
	}
}
