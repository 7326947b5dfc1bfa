package aggregator

import (
	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/llm"
)

const (
	rerankerSystemPrompt   = "你是一个搜索质量打分专家，要从搜索结果里找出和查询最相关的结果，保留result_id、title、description、url，严格以json数组格式输出"
	attractionSystemPrompt = "你是一个旅游信息提取专家，要根据内容提取出景点信息并返回json格式，严格以json格式输出"
	foodSystemPrompt       = "你是一个旅游信息提取专家，要根据内容提取出美食信息并返回json格式，严格以json格式输出"
	baseGuideSystemPrompt  = "你是一个旅游攻略生成专家，要根据内容生成一个旅游攻略，严格以json格式输出"
)

const attractionsPromptTpl = `
请从以下文本中提取出具体的景点名称，注意不能遗漏景点信息，要尽量多提取景点信息，并为每个景点提供简短描述：
%s
请以JSON格式返回，格式如下：
{
    "attractions": [
        {"name": "景点名称", "description": "简短描述"}
    ]
}
`

const foodsPromptTpl = `
请从以下文本中提取出具体的美食名称或者美食店铺，注意不能遗漏美食信息，要尽量多提取美食信息，并为每个美食和店铺提供简短描述：
%s
请以JSON格式返回，格式如下：
{
    "foods": [
        {"name": "美食名称", "description": "简短描述"}
    ],
    "food_shop": [
        {"name": "美食店铺", "description": "简短描述"}
    ]
}
`

const baseGuidePromptTpl = `
参考以下信息，生成一个%s%d天攻略路线，直接根据整个travel_info生成
%s
【输出格式】
{
    "base_guide": "攻略内容"
}
`

// Agents 信息聚合用到的四个角色
type Agents struct {
	Reranker   llm.Chatter
	Attraction llm.Chatter
	Food       llm.Chatter
	BaseGuide  llm.Chatter
}

// NewAgents 基于同一个模型创建四个角色
func NewAgents(cm model.BaseChatModel, opts ...llm.Option) Agents {
	return Agents{
		Reranker:   llm.NewAgent(cm, "reranker", rerankerSystemPrompt, opts...),
		Attraction: llm.NewAgent(cm, "attraction_extractor", attractionSystemPrompt, opts...),
		Food:       llm.NewAgent(cm, "food_extractor", foodSystemPrompt, opts...),
		BaseGuide:  llm.NewAgent(cm, "base_guide", baseGuideSystemPrompt, opts...),
	}
}
