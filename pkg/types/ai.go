package types

import "github.com/sashabaranov/go-openai"

// PassageInfo 提供给回答模型的上下文段落
type PassageInfo struct {
	DocID   string `json:"doc_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Usage = openai.Usage

// RankedResult 重排后的检索结果
type RankedResult struct {
	DocID       string  `json:"doc_id"`
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Similarity  float64 `json:"similarity"`
	BanditScore float64 `json:"bandit_score"`
	FinalScore  float64 `json:"final_score"`
}
