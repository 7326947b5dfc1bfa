package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var dayCountPattern = regexp.MustCompile(`([0-9]+|[零〇一二两三四五六七八九十百]+)\s*(个)?\s*(天|日|周|星期|礼拜)`)

var chineseDigits = map[rune]int{
	'零': 0, '〇': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// ParseDayCount 从文本中解析第一个天数表达，周/星期/礼拜按 7 天换算。
// 纯数字字符串直接视为天数。解析失败或结果不为正数时返回 false。
func ParseDayCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	if n, ok := parseChineseNumber(s); ok {
		return n, n > 0
	}

	m := dayCountPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		var ok bool
		if n, ok = parseChineseNumber(m[1]); !ok {
			return 0, false
		}
	}
	switch m[3] {
	case "周", "星期", "礼拜":
		n *= 7
	}
	return n, n > 0
}

// parseChineseNumber 支持 0-999 的中文数字，例如 三、十五、二十一、一百
func parseChineseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	total, current := 0, 0
	for _, r := range s {
		switch r {
		case '十':
			if current == 0 {
				current = 1
			}
			total += current * 10
			current = 0
		case '百':
			if current == 0 {
				current = 1
			}
			total += current * 100
			current = 0
		default:
			d, ok := chineseDigits[r]
			if !ok {
				return 0, false
			}
			current = d
		}
	}
	return total + current, true
}
