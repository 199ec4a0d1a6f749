package srv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v9"

	"github.com/newsradar-ai/newsradar/pkg/ai"
	"github.com/newsradar-ai/newsradar/pkg/utils"
)

const embeddingCacheTTL = time.Hour * 24 * 7

// EmbeddingCache 在 redis 中缓存向量，key 为文本内容的 md5。
// 重复摄取同一篇文章时不再重复请求 embedding 服务。
type EmbeddingCache struct {
	next      EmbeddingAI
	cmd       redis.Cmdable
	keyPrefix string
}

func NewEmbeddingCache(next EmbeddingAI, cmd redis.Cmdable, keyPrefix string) *EmbeddingCache {
	if keyPrefix == "" {
		keyPrefix = "newsradar"
	}
	return &EmbeddingCache{
		next:      next,
		cmd:       cmd,
		keyPrefix: keyPrefix,
	}
}

func (s *EmbeddingCache) cacheKey(content string) string {
	return s.keyPrefix + ":embedding:" + utils.MD5(content)
}

func (s *EmbeddingCache) embedding(ctx context.Context, content []string, next func(ctx context.Context, content []string) (ai.EmbeddingResult, error)) (ai.EmbeddingResult, error) {
	result := ai.EmbeddingResult{
		Data: make([][]float32, len(content)),
	}

	var (
		missed    []string
		missedIdx []int
	)
	for i, text := range content {
		raw, err := s.cmd.Get(ctx, s.cacheKey(text)).Bytes()
		if err != nil {
			missed = append(missed, text)
			missedIdx = append(missedIdx, i)
			continue
		}
		var vector []float32
		if err = json.Unmarshal(raw, &vector); err != nil {
			missed = append(missed, text)
			missedIdx = append(missedIdx, i)
			continue
		}
		result.Data[i] = vector
	}

	if len(missed) == 0 {
		return result, nil
	}

	fresh, err := next(ctx, missed)
	if err != nil {
		return ai.EmbeddingResult{}, err
	}
	if len(fresh.Data) != len(missed) {
		return ai.EmbeddingResult{}, fmt.Errorf("embedding result mismatch, want %d vectors, got %d", len(missed), len(fresh.Data))
	}

	result.Model = fresh.Model
	result.Usage = fresh.Usage
	for i, vector := range fresh.Data {
		result.Data[missedIdx[i]] = vector

		raw, err := json.Marshal(vector)
		if err != nil {
			continue
		}
		if err = s.cmd.Set(ctx, s.cacheKey(missed[i]), raw, embeddingCacheTTL).Err(); err != nil {
			slog.Warn("Failed to cache embedding", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

func (s *EmbeddingCache) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content, s.next.EmbeddingForQuery)
}

func (s *EmbeddingCache) EmbeddingForDocument(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content, s.next.EmbeddingForDocument)
}

// ApplyEmbeddingCache 需在 ApplyAI 之后应用
func ApplyEmbeddingCache(cmd redis.Cmdable, keyPrefix string) ApplyFunc {
	return func(s *Srv) {
		if s.ai == nil || cmd == nil {
			return
		}
		s.ai.EmbeddingAI = NewEmbeddingCache(s.ai.EmbeddingAI, cmd, keyPrefix)
	}
}
