package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "纯 JSON 对象",
			text: `{"city": "北京", "days": 3}`,
			want: `{"city": "北京", "days": 3}`,
		},
		{
			name: "json 代码块",
			text: "```json\n{\"city\": \"北京\"}\n```",
			want: `{"city": "北京"}`,
		},
		{
			name: "前后带说明文字",
			text: "好的，结果如下：\n[{\"name\": \"故宫\"}]\n希望对你有帮助",
			want: `[{"name": "故宫"}]`,
		},
		{
			name: "字符串里的括号不影响配对",
			text: `结果 {"description": "包含 } 和 ] 以及 \" 引号"} 结束`,
			want: `{"description": "包含 } 和 ] 以及 \" 引号"}`,
		},
		{
			name: "跳过无法解析的方括号说明",
			text: `[注] 以下为结果 {"ok": true}`,
			want: `{"ok": true}`,
		},
		{
			name: "嵌套结构",
			text: "```\n{\"foods\": [{\"name\": \"烤鸭\"}], \"food_shop\": []}\n```",
			want: `{"foods": [{"name": "烤鸭"}], "food_shop": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_NoJSON(t *testing.T) {
	for _, text := range []string{"", "没有任何 JSON", "{未闭合", "```json\n```"} {
		_, err := Extract(text)
		assert.ErrorIs(t, err, ErrNoJSON, "text=%q", text)
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Attractions []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"attractions"`
	}
	err := Decode("```json\n{\"attractions\": [{\"name\": \"故宫\", \"description\": \"皇家宫殿\"}]}\n```", &out)
	require.NoError(t, err)
	require.Len(t, out.Attractions, 1)
	assert.Equal(t, "故宫", out.Attractions[0].Name)

	var wrongShape []string
	assert.Error(t, Decode(`{"a": 1}`, &wrongShape))
}
