package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/iWorld-y/travel_navigator/app/navigator/internal/metrics"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/jsonx"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/llm"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/logger"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

// AgentName 意图提取角色名
const AgentName = "intent_extractor"

// SystemPrompt 意图提取的系统提示词
const SystemPrompt = `
你是一个旅游信息提取助手。你的任务是从用户的输入中提取旅游目的地城市和行程天数，并根据提取情况决定是否需要用户补充信息。

用户输入可能包含以下信息：
* 旅游目的地城市名称（例如：北京、上海、巴黎、东京）
* 行程天数（例如：3天、5天、一周、两周）
* 可能会有其他无关信息，请忽略。

你需要将提取到的城市名称和行程天数以 JSON 格式返回，格式如下：
{"city": "城市名称", "days": 天数, "need_more_info": boolean, "response": "给用户的回复"}
* "city" 的值：
    * 如果成功提取到城市名称，则为城市名称字符串。
    * 如果无法提取到城市名称，则为 null。
* "days" 的值：
    * 如果成功提取到行程天数，则为数字。
    * 如果无法提取到行程天数，则为 null。
* "need_more_info" 的值：
    * 如果 "city" 或 "days" 中有任何一个为 null，则为 true，表示需要用户提供更多信息。
    * 如果 "city" 和 "days" 都不为 null，则为 false，表示不需要用户提供更多信息。
* 如果提取到的天数包含“天”或“日”等字样，请将其转换为数字。
* 如果提取到的天数包含“周”或“星期”，请将其转换为7的倍数。例如，“一周”转换为7，“两周”转换为14。
* 如果用户输入中包含多个城市，请只提取第一个城市。
* 如果用户输入中包含多个天数，请只提取第一个天数。

请严格按照 JSON 格式返回结果。

**示例：**

**用户输入：**
我想去北京玩三天，顺便看看长城。

**你的输出：**
{"city": "北京", "days": 3, "need_more_info": false, "response": "信息在Navigator的数据库中查询到啦，正在努力为您生成攻略~"}

**用户输入：**
我想去北京。

**你的输出：**
{"city": "北京", "days": null, "need_more_info": true, "response": "Navigator还不知道您打算去玩几天呢，请补充你计划的行程天数~"}
`

// Extractor 从自由文本中提取城市和天数
type Extractor struct {
	agent llm.Chatter
}

// New 创建 Extractor
func New(agent llm.Chatter) *Extractor {
	return &Extractor{agent: agent}
}

// rawIntent 模型输出，days 可能是数字也可能是字符串
type rawIntent struct {
	City     *string         `json:"city"`
	Days     json.RawMessage `json:"days"`
	Response *string         `json:"response"`
}

// Extract 提取旅游意图，任何失败都退化为需要补充信息的空结果，不返回错误
func (e *Extractor) Extract(ctx context.Context, query string) model.TravelIntent {
	content, err := e.agent.Chat(ctx, query)
	if err != nil {
		logger.Log.Errorf("意图提取调用模型失败: %v", err)
		metrics.DegradedTotal.WithLabelValues("extract").Inc()
		return Fallback(query)
	}

	var raw rawIntent
	if err := jsonx.Decode(content, &raw); err != nil {
		logger.Log.Warnf("意图提取结果不是有效的 JSON: %v, 原始内容: %s", err, content)
		metrics.DegradedTotal.WithLabelValues("extract").Inc()
		return Fallback(query)
	}

	intent := model.TravelIntent{
		Query:    query,
		Response: raw.Response,
	}
	if raw.City != nil {
		if city := strings.TrimSpace(*raw.City); city != "" {
			intent.City = &city
		}
	}
	if days, ok := parseDays(raw.Days); ok {
		intent.Days = &days
	}
	intent.NeedMoreInfo = intent.City == nil || intent.Days == nil

	logger.Log.Infof("意图提取完成: query=%q city=%v days=%v need_more_info=%v",
		query, deref(intent.City), deref(intent.Days), intent.NeedMoreInfo)
	return intent
}

// Fallback 提取失败时的结果
func Fallback(query string) model.TravelIntent {
	return model.TravelIntent{
		NeedMoreInfo: true,
		Query:        query,
	}
}

func parseDays(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), n >= 1
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseDayCount(s)
	}
	return 0, false
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
