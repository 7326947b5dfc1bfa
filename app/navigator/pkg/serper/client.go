package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search"
)

const defaultBaseURL = "https://google.serper.dev"

// Client Serper API 客户端，同时提供网页搜索和图片搜索
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Serper 客户端，baseURL 为空时使用官方地址
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var (
	_ search.Searcher      = (*Client)(nil)
	_ search.ImageSearcher = (*Client)(nil)
)

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

// OrganicResult 网页搜索单条结果
type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// ImageResult 图片搜索单条结果
type ImageResult struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
	Source   string `json:"source"`
}

type searchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

type imagesResponse struct {
	Images []ImageResult `json:"images"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	num := req.MaxResults
	if num == 0 {
		num = 5
	}

	var resp searchResponse
	if err := c.post(ctx, "/search", searchRequest{Q: req.Query, Num: num}, &resp); err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		results = append(results, search.Result{
			Title:   r.Title,
			URL:     r.Link,
			Content: r.Snippet,
		})
	}
	return &search.Response{Results: results}, nil
}

// SearchImages implements search.ImageSearcher
func (c *Client) SearchImages(ctx context.Context, query string, num int) ([]search.Image, error) {
	if num == 0 {
		num = 1
	}

	var resp imagesResponse
	if err := c.post(ctx, "/images", searchRequest{Q: query, Num: num}, &resp); err != nil {
		return nil, err
	}

	images := make([]search.Image, 0, len(resp.Images))
	for _, img := range resp.Images {
		if img.ImageURL == "" {
			continue
		}
		images = append(images, search.Image{
			ImageURL: img.ImageURL,
			Title:    img.Title,
			Source:   img.Source,
		})
	}
	return images, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("serper api key is missing")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("serper api error (status %d): %s", res.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	return nil
}
