package render

import (
	"regexp"
	"strings"
)

var (
	markdownImagePattern = regexp.MustCompile(`!\[[^\]]*\]\((https?://[^\s)]+)\)`)
	imageLinePattern     = regexp.MustCompile(`-\s*图片URL[：:]\s*(https?://\S+)`)
)

// BlockKind 行程文本中一行的类型
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockImage
)

// Block 行程中的一个展示单元
type Block struct {
	Kind BlockKind
	Text string // 段落/标题文本，或图片地址
}

// FixImageLinks 把 ![alt](url) 还原成 url
func FixImageLinks(text string) string {
	return markdownImagePattern.ReplaceAllString(text, "$1")
}

// ParseItinerary 把模型输出的行程拆成标题、段落和图片
func ParseItinerary(text string) []Block {
	var blocks []Block
	for _, line := range strings.Split(FixImageLinks(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := imageLinePattern.FindStringSubmatchIndex(trimmed); m != nil {
			if prefix := strings.TrimSpace(trimmed[:m[0]]); prefix != "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: prefix})
			}
			blocks = append(blocks, Block{Kind: BlockImage, Text: trimmed[m[2]:m[3]]})
			continue
		}

		if heading, ok := dayHeading(trimmed); ok {
			blocks = append(blocks, Block{Kind: BlockHeading, Text: heading})
			continue
		}
		blocks = append(blocks, Block{Kind: BlockParagraph, Text: strings.TrimRight(line, " \t\r")})
	}
	return blocks
}

// dayHeading 忽略 Markdown 标题和加粗符号后以 Day 开头的行
func dayHeading(line string) (string, bool) {
	stripped := strings.TrimSpace(strings.TrimLeft(line, "#* "))
	if !strings.HasPrefix(stripped, "Day") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimRight(stripped, "*# ")), true
}

// CountHeadings 统计 Day 标题数量
func CountHeadings(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.Kind == BlockHeading {
			n++
		}
	}
	return n
}
