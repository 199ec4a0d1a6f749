package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

const sampleResponse = `{
  "articles": {
    "results": [
      {
        "title": "OpenAI releases new model",
        "url": "https://news.example.com/openai-release",
        "body": "OpenAI announced a new model today.",
        "lang": "eng",
        "dateTime": "2025-08-20T10:00:00Z",
        "source": {"title": "Example News"}
      },
      {
        "title": "Empty body is skipped",
        "url": "https://news.example.com/empty",
        "body": "",
        "lang": "eng",
        "dateTime": "2025-08-21T10:00:00Z",
        "source": {"title": "Example News"}
      }
    ]
  }
}`

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/article/getArticles", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "OpenAI", r.URL.Query().Get("keyword"))
		assert.NotEmpty(t, r.URL.Query().Get("dateStart"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	articles, err := client.Fetch(context.Background(), types.FetchOptions{
		Keyword:      "OpenAI",
		LookbackDays: 30,
		MaxItems:     50,
	})
	require.NoError(t, err)
	require.Len(t, articles, 1)

	assert.Equal(t, "OpenAI", articles[0].Company)
	assert.Equal(t, "Example News", articles[0].Source)
	assert.Equal(t, "https://news.example.com/openai-release", articles[0].URL)
	assert.Equal(t, "en", articles[0].Lang)
	assert.Equal(t, 2025, articles[0].PublishedAt.Year())
}

func TestClient_Fetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	articles, err := client.Fetch(context.Background(), types.FetchOptions{Keyword: "OpenAI", LookbackDays: 7, MaxItems: 10})
	assert.Error(t, err)
	assert.Nil(t, articles)
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Fetch(context.Background(), types.FetchOptions{Keyword: "OpenAI", LookbackDays: 7, MaxItems: 10})
	assert.Error(t, err)
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("http://localhost:0", "test-key")
	_, err := client.Fetch(ctx, types.FetchOptions{Keyword: "OpenAI", LookbackDays: 7, MaxItems: 10})
	assert.Error(t, err)
}
