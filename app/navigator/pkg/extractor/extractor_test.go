package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeChatter) Chat(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		reply        string
		wantCity     any
		wantDays     any
		wantNeedMore bool
	}{
		{
			name:         "城市和天数齐全",
			query:        "我想去北京玩三天",
			reply:        `{"city": "北京", "days": 3, "need_more_info": false, "response": "正在生成攻略~"}`,
			wantCity:     "北京",
			wantDays:     3,
			wantNeedMore: false,
		},
		{
			name:         "缺少天数",
			query:        "我想去北京",
			reply:        `{"city": "北京", "days": null, "need_more_info": true, "response": "请补充天数~"}`,
			wantCity:     "北京",
			wantDays:     nil,
			wantNeedMore: true,
		},
		{
			name:         "缺少城市",
			query:        "我想玩五天",
			reply:        `{"city": null, "days": 5, "need_more_info": true}`,
			wantCity:     nil,
			wantDays:     5,
			wantNeedMore: true,
		},
		{
			name:         "带代码块",
			query:        "两周的巴黎之旅",
			reply:        "```json\n{\"city\": \"巴黎\", \"days\": 14, \"need_more_info\": false}\n```",
			wantCity:     "巴黎",
			wantDays:     14,
			wantNeedMore: false,
		},
		{
			name:         "天数为字符串",
			query:        "东京一周",
			reply:        `好的：{"city": "东京", "days": "一周", "need_more_info": false}`,
			wantCity:     "东京",
			wantDays:     7,
			wantNeedMore: false,
		},
		{
			name:         "模型给出的 need_more_info 与字段矛盾时以字段为准",
			query:        "去上海",
			reply:        `{"city": "上海", "days": null, "need_more_info": false}`,
			wantCity:     "上海",
			wantDays:     nil,
			wantNeedMore: true,
		},
		{
			name:         "空城市名视为缺失",
			query:        "三天",
			reply:        `{"city": "  ", "days": 3, "need_more_info": true}`,
			wantCity:     nil,
			wantDays:     3,
			wantNeedMore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &fakeChatter{reply: tt.reply}
			got := New(agent).Extract(context.Background(), tt.query)

			assert.Equal(t, tt.query, agent.prompt)
			assert.Equal(t, tt.query, got.Query)
			assert.Equal(t, tt.wantNeedMore, got.NeedMoreInfo)
			if tt.wantCity == nil {
				assert.Nil(t, got.City)
			} else {
				require.NotNil(t, got.City)
				assert.Equal(t, tt.wantCity, *got.City)
			}
			if tt.wantDays == nil {
				assert.Nil(t, got.Days)
			} else {
				require.NotNil(t, got.Days)
				assert.Equal(t, tt.wantDays, *got.Days)
			}
		})
	}
}

func TestExtractor_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		agent *fakeChatter
	}{
		{"模型报错", &fakeChatter{err: errors.New("connection refused")}},
		{"非 JSON", &fakeChatter{reply: "抱歉，我无法理解"}},
		{"空回复", &fakeChatter{reply: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.agent).Extract(context.Background(), "我想去北京玩三天")
			assert.Nil(t, got.City)
			assert.Nil(t, got.Days)
			assert.Nil(t, got.Response)
			assert.True(t, got.NeedMoreInfo)
			assert.Equal(t, "我想去北京玩三天", got.Query)
		})
	}
}

func TestParseDayCount(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{"3天", 3, true},
		{"玩三天", 3, true},
		{"五日游", 5, true},
		{"十五天", 15, true},
		{"二十一天", 21, true},
		{"一周", 7, true},
		{"两周", 14, true},
		{"一个星期", 7, true},
		{"两个礼拜", 14, true},
		{"3周", 21, true},
		{"三", 3, true},
		{"0", 0, false},
		{"0天", 0, false},
		{"-2", -2, false},
		{"", 0, false},
		{"几天", 0, false},
		{"周末", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDayCount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
