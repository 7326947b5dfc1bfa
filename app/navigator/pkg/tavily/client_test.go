package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))
		var req SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, "general", req.Topic)
		assert.Equal(t, 5, req.MaxResults)
		_, _ = w.Write([]byte(`{"query":"q","results":[{"title":"成都美食","url":"https://b.example","content":"火锅 串串","score":0.9}]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-key", srv.URL, time.Second)
	resp, err := c.Search(context.Background(), &search.Request{Query: "成都 必吃美食"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://b.example", resp.Results[0].URL)
	assert.Equal(t, "火锅 串串", resp.Results[0].Content)
}

func TestClient_SearchImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.IncludeImages)
		_, _ = w.Write([]byte(`{"results":[],"images":["https://img.example/1.jpg",{"url":"https://img.example/2.jpg","description":"宽窄巷子"},""]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-key", srv.URL, time.Second)
	images, err := c.SearchImages(context.Background(), "成都 宽窄巷子 实景图", 0)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img.example/1.jpg", images[0].ImageURL)
	assert.Equal(t, "宽窄巷子", images[1].Title)

	limited, err := c.SearchImages(context.Background(), "成都 宽窄巷子 实景图", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient("tvly-key", srv.URL, time.Second).Search(context.Background(), &search.Request{Query: "q"})
	assert.ErrorContains(t, err, "status 401")
}
