package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/newsradar-ai/newsradar/pkg/types"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

// Client 新闻文章源客户端（EventRegistry 风格的 HTTP API）
// 同一个 key 下所有检索词共享一个限速器，避免触发源站限流
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

type articleResponse struct {
	Articles struct {
		Results []struct {
			Title    string `json:"title"`
			URL      string `json:"url"`
			Body     string `json:"body"`
			Lang     string `json:"lang"`
			DateTime string `json:"dateTime"`
			Source   struct {
				Title string `json:"title"`
			} `json:"source"`
		} `json:"results"`
	} `json:"articles"`
}

// Fetch 拉取一个检索词在回看窗口内的最新文章
// 单个检索词的失败由调用方决定是否跳过，这里只负责把错误如实带回
func (c *Client) Fetch(ctx context.Context, opts types.FetchOptions) ([]types.RawArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	dateEnd := time.Now().UTC()
	dateStart := dateEnd.AddDate(0, 0, -opts.LookbackDays)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("keyword", opts.Keyword)
	params.Set("dateStart", dateStart.Format("2006-01-02"))
	params.Set("dateEnd", dateEnd.Format("2006-01-02"))
	params.Set("articlesCount", strconv.Itoa(opts.MaxItems))
	params.Set("resultType", "articles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/v1/article/getArticles?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRadar-Feed/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed articleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse feed response: %w", err)
	}

	articles := make([]types.RawArticle, 0, len(parsed.Articles.Results))
	for _, item := range parsed.Articles.Results {
		if item.URL == "" || item.Body == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.DateTime)
		articles = append(articles, types.RawArticle{
			Source:      item.Source.Title,
			Company:     opts.Keyword,
			Title:       item.Title,
			URL:         item.URL,
			Lang:        utils.NormalizeLangCode(item.Lang),
			Body:        item.Body,
			PublishedAt: publishedAt,
		})
	}

	if opts.MaxItems > 0 && len(articles) > opts.MaxItems {
		articles = articles[:opts.MaxItems]
	}
	return articles, nil
}
