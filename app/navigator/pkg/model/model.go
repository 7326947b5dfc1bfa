package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TravelIntent 意图提取结果
type TravelIntent struct {
	City         *string `json:"city"`
	Days         *int    `json:"days"`
	NeedMoreInfo bool    `json:"need_more_info"`
	Query        string  `json:"query"`
	Response     *string `json:"response"`
}

// SearchResult 搜索服务返回的单条网页结果
type SearchResult struct {
	ResultID    int    `json:"result_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// RankedResult 经过 LLM 重排后的结果
type RankedResult struct {
	ResultID        FlexInt `json:"result_id"`
	Title           string  `json:"title"`
	URL             string  `json:"url,omitempty"`
	Description     string  `json:"description"`
	LongDescription string  `json:"long_description,omitempty"`
}

// CategoryBundle 四类搜索结果，顺序即重排顺序
type CategoryBundle struct {
	Guides      []RankedResult `json:"guides"`
	Attractions []RankedResult `json:"attractions"`
	MustEat     []RankedResult `json:"must_eat"`
	LocalFood   []RankedResult `json:"local_food"`
}

// NewCategoryBundle 返回各分类都为空切片（而非 nil）的结果集
func NewCategoryBundle() CategoryBundle {
	return CategoryBundle{
		Guides:      []RankedResult{},
		Attractions: []RankedResult{},
		MustEat:     []RankedResult{},
		LocalFood:   []RankedResult{},
	}
}

// EnrichedEntity 带图片的景点/美食/店铺
type EnrichedEntity struct {
	Name     string `json:"name"`
	Describe string `json:"describe"`
	ImageURL string `json:"image_url"`
	Distance string `json:"距离,omitempty"`
}

// TravelInfoBundle 持久化的城市+天数旅游信息
type TravelInfoBundle struct {
	City        string           `json:"city"`
	Days        int              `json:"days"`
	BaseRoute   string           `json:"base路线"`
	Attractions []EnrichedEntity `json:"景点"`
	Foods       []EnrichedEntity `json:"美食"`
	FoodShops   []EnrichedEntity `json:"美食店铺"`
	TravelInfo  *CategoryBundle  `json:"travel_info,omitempty"`
}

// FlexInt 兼容 LLM 把数字输出成字符串的情况
type FlexInt int

// UnmarshalJSON 接受 1 / "1" / null
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = FlexInt(int(v))
	return nil
}
