// Package jsonx 从 LLM 的自由文本输出中提取 JSON。
//
// 模型经常在 JSON 外面包一层 ```json 代码块，或者在前后附带说明文字，
// 这里不依赖任何围栏标记，而是扫描第一个括号平衡且能被解析的 {...} 或 [...] 片段。
package jsonx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoJSON 文本中不存在可解析的 JSON 片段
var ErrNoJSON = errors.New("jsonx: no json value found")

// Extract 返回文本中第一个合法的 JSON 对象或数组
func Extract(text string) (string, error) {
	for start := 0; start < len(text); start++ {
		c := text[start]
		if c != '{' && c != '[' {
			continue
		}
		end, ok := balancedEnd(text, start)
		if !ok {
			continue
		}
		candidate := text[start:end]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", ErrNoJSON
}

// Decode 提取 JSON 片段并反序列化到 v
func Decode(text string, v any) error {
	raw, err := Extract(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("jsonx: unmarshal: %w", err)
	}
	return nil
}

// balancedEnd 从 start 处的开括号开始，返回与之匹配的闭括号之后的位置。
// 字符串字面量内的括号和转义字符会被跳过。
func balancedEnd(text string, start int) (int, bool) {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
