package search

import "context"

// Searcher 定义通用的网页搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// ImageSearcher 定义通用的图片搜索接口
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, num int) ([]Image, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	MaxResults int
}

// Response 通用搜索响应，结果按相关度排序
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title   string
	URL     string
	Content string
}

// Image 单条图片结果
type Image struct {
	ImageURL string
	Title    string
	Source   string
}
