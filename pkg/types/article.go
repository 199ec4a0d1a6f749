package types

import "time"

// RawArticle 从新闻源抓取到的原始文章，抓取完成后不再修改
type RawArticle struct {
	Source      string    `json:"source"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Lang        string    `json:"lang"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
}

// FetchOptions 单个检索词的抓取参数
type FetchOptions struct {
	Keyword      string
	LookbackDays int
	MaxItems     int
}
