package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/search"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		switch r.URL.Query().Get("categories") {
		case "general":
			_, _ = w.Write([]byte(`{"query":"q","results":[
				{"title":"r1","url":"https://c.example/1","content":"c1"},
				{"title":"r2","url":"https://c.example/2","content":"c2"},
				{"title":"r3","url":"https://c.example/3","content":"c3"}
			]}`))
		case "images":
			_, _ = w.Write([]byte(`{"results":[
				{"title":"无图","url":"https://c.example/x"},
				{"title":"西湖","url":"https://c.example/p","img_src":"https://img.example/xihu.jpg"}
			]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestClient_SearchTruncates(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := NewClient(srv.URL, 1).Search(context.Background(), &search.Request{Query: "杭州 必去景点", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "r1", resp.Results[0].Title)
}

func TestClient_SearchImages(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	images, err := NewClient(srv.URL, 1).SearchImages(context.Background(), "杭州 西湖 实景图", 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img.example/xihu.jpg", images[0].ImageURL)
	assert.Equal(t, "西湖", images[0].Title)
}

func TestClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 1).SearchImages(context.Background(), "q", 1)
	assert.ErrorContains(t, err, "status 429")
}
