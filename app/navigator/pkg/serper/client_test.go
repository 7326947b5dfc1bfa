package serper

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

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req searchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "北京3天旅游攻略 最佳路线", req.Q)
			assert.Equal(t, 5, req.Num)
			_, _ = w.Write([]byte(`{"organic":[
				{"title":"北京三日游","link":"https://a.example/1","snippet":"故宫-天安门","position":1},
				{"title":"北京攻略","link":"https://a.example/2","snippet":"长城一日","position":2}
			]}`))
		case "/images":
			assert.Equal(t, 1, req.Num)
			_, _ = w.Write([]byte(`{"images":[{"title":"故宫","imageUrl":"https://img.example/gugong.jpg","source":"wiki"},{"title":"空","imageUrl":""}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClient_Search(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second)
	resp, err := c.Search(context.Background(), &search.Request{Query: "北京3天旅游攻略 最佳路线"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, search.Result{Title: "北京三日游", URL: "https://a.example/1", Content: "故宫-天安门"}, resp.Results[0])
}

func TestClient_SearchImages(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second)
	images, err := c.SearchImages(context.Background(), "北京 故宫 实景图", 1)
	require.NoError(t, err)
	require.Len(t, images, 1, "空 imageUrl 的结果应被丢弃")
	assert.Equal(t, "https://img.example/gugong.jpg", images[0].ImageURL)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid key"))
	}))
	defer srv.Close()

	c := NewClient("bad", srv.URL, time.Second)
	_, err := c.Search(context.Background(), &search.Request{Query: "q"})
	assert.ErrorContains(t, err, "status 403")
}

func TestClient_MissingKey(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:0", time.Second)
	_, err := c.SearchImages(context.Background(), "q", 1)
	assert.ErrorContains(t, err, "api key is missing")
}
