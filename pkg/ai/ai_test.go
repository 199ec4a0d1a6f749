package ai

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsradar-ai/newsradar/pkg/types"
)

func TestTruncatePassagesNoBudget(t *testing.T) {
	passages := []*types.PassageInfo{
		{Content: "first"},
		{Content: "second"},
	}
	assert.Equal(t, passages, TruncatePassages(passages, 0, "gpt-4o"))
	assert.Equal(t, passages, TruncatePassages(passages, -1, "gpt-4o"))
}

// tiktoken 首次加载需要联网拉取编码表，本地没缓存时跳过
func TestTruncatePassagesBudget(t *testing.T) {
	if os.Getenv("NEWSRADAR_TIKTOKEN_TESTS") == "" {
		t.Skip("NEWSRADAR_TIKTOKEN_TESTS not set")
	}

	long := &types.PassageInfo{Content: strings.Repeat("market analysis ", 200)}
	short := &types.PassageInfo{Content: "brief note"}

	n, err := NumTokens(short.Content, "gpt-4o")
	require.NoError(t, err)
	require.Greater(t, n, 0)

	// 预算只够短段落，长段落整段丢弃
	kept := TruncatePassages([]*types.PassageInfo{long, short}, n+1, "gpt-4o")
	require.Len(t, kept, 1)
	assert.Equal(t, short, kept[0])
}
