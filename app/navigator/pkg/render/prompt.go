package render

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

// AgentName 行程规划角色名
const AgentName = "itinerary_planner"

// SystemPrompt 行程规划师的系统提示词
const SystemPrompt = `
你是一位专业的旅游规划师。请你根据用户输入的旅行需求，包括旅行天数、景点/美食的距离、描述、图片URL、预计游玩/就餐时长等信息，为用户提供一个详细的行程规划。

请遵循以下要求：
1. 按照 Day1、Day2、... 的形式组织输出，直到满足用户指定的天数。
2. 每一天的行程请从早餐开始，食物尽量选用当地特色小吃美食，列出上午活动、午餐、下午活动、晚餐、夜间活动（若有），并在末尾总结住宿或返程安排。
3. 对每个景点或美食，提供其基本信息：
   - 名称
   - 描述
   - 预计游玩/就餐时长（如果用户未提供，可以不写或自行估计）
   - 图片URL（如果有）
4. 请利用你自身的知识在行程中对移动或出行所需时长做出合理估计。
5. 输出语言为中文。
6. 保持回复简洁、有条理，但必须包含用户想要的所有信息。
`

// BuildPrompt 把旅游信息整理成行程规划请求
func BuildPrompt(bundle *model.TravelInfoBundle, days int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "我准备去%s旅行，共 %d 天。下面是我提供的旅行信息：\n\n", bundle.City, days)

	if len(bundle.Attractions) > 0 {
		sb.WriteString("- 景点：\n")
		for i, spot := range bundle.Attractions {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, orDefault(spot.Name, "未知景点名称"))
			if spot.Distance != "" {
				fmt.Fprintf(&sb, "     - 距离：%s\n", spot.Distance)
			}
			fmt.Fprintf(&sb, "     - 描述：%s\n", spot.Describe)
			if spot.ImageURL != "" {
				fmt.Fprintf(&sb, "     - 图片URL：%s\n", spot.ImageURL)
			}
		}
	}

	if len(bundle.Foods) > 0 {
		sb.WriteString("\n- 美食：\n")
		for i, food := range bundle.Foods {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, orDefault(food.Name, "未知美食名称"))
			fmt.Fprintf(&sb, "     - 描述：%s\n", food.Describe)
			if food.ImageURL != "" {
				fmt.Fprintf(&sb, "     - 图片URL：%s\n", food.ImageURL)
			}
		}
	}

	fmt.Fprintf(&sb, "\n请你根据以上信息，规划一个 %d 天的行程表。\n", days)
	sb.WriteString("从每天的早餐开始，到晚餐结束，列出一天的行程，包括对出行方式或移动距离的简单说明。\n")
	sb.WriteString("如果有多种景点组合，你可以给出最优的路线推荐。请按以下格式输出：\n\n")
	sb.WriteString("Day1:\n- 早餐：\n- 上午：\n- 午餐：\n- 下午：\n- 晚餐：\n...\n\n")
	if days > 1 {
		sb.WriteString("Day2:\n...\n\n")
	}
	if days > 2 {
		fmt.Fprintf(&sb, "Day%d:\n...\n", days)
	}
	return sb.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
