package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
)

// ErrEmptyResponse 模型没有返回任何内容
var ErrEmptyResponse = errors.New("llm: empty response")

// Chatter 以固定系统提示词回答单轮问题
type Chatter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Agent 绑定一个系统提示词的无状态对话角色。
// 每次调用只发送 [system, user] 两条消息，请求之间不共享上下文。
type Agent struct {
	name         string
	systemPrompt string
	chatModel    model.BaseChatModel
	limiter      *rate.Limiter
	timeout      time.Duration
	maxRetries   int
	retryDelay   time.Duration
	modelOpts    []model.Option
}

// Option 配置 Agent
type Option func(*Agent)

// WithLimiter 多个 Agent 共享同一个限流器
func WithLimiter(l *rate.Limiter) Option {
	return func(a *Agent) { a.limiter = l }
}

// WithTimeout 单次调用超时
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) { a.timeout = d }
}

// WithMaxRetries 遇到 429 时的最大重试次数
func WithMaxRetries(n int) Option {
	return func(a *Agent) { a.maxRetries = n }
}

// WithRetryDelay 429 重试的基础等待时间，按 2 的幂递增
func WithRetryDelay(d time.Duration) Option {
	return func(a *Agent) { a.retryDelay = d }
}

// WithTemperature 覆盖模型温度
func WithTemperature(t float32) Option {
	return func(a *Agent) { a.modelOpts = append(a.modelOpts, model.WithTemperature(t)) }
}

// NewAgent 创建 Agent
func NewAgent(cm model.BaseChatModel, name, systemPrompt string, opts ...Option) *Agent {
	a := &Agent{
		name:         name,
		systemPrompt: systemPrompt,
		chatModel:    cm,
		retryDelay:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name 返回角色名，用于日志和指标
func (a *Agent) Name() string {
	return a.name
}

// Chat 发送一轮对话并返回去除首尾空白的回复
func (a *Agent) Chat(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i := 0; i <= a.maxRetries; i++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		content, err := a.generate(ctx, prompt)
		if err == nil {
			return content, nil
		}
		if !isRateLimited(err) || i == a.maxRetries {
			return "", err
		}

		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(a.retryDelay * time.Duration(1<<i)):
		}
	}
	return "", lastErr
}

func (a *Agent) generate(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	messages := make([]*schema.Message, 0, 2)
	if a.systemPrompt != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: a.systemPrompt})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: prompt})

	start := time.Now()
	resp, err := a.chatModel.Generate(ctx, messages, a.modelOpts...)
	metrics.LLMRequestDuration.WithLabelValues(a.name).Observe(time.Since(start).Seconds())
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = ErrEmptyResponse
	}
	metrics.LLMRequestsTotal.WithLabelValues(a.name, metrics.Status(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.name, err)
	}
	return strings.TrimSpace(resp.Content), nil
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
