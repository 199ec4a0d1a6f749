package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocID_Deterministic(t *testing.T) {
	a := DocID("https://example.com/news/1", 0)
	b := DocID("https://example.com/news/1", 0)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c := DocID("https://example.com/news/1", 1)
	assert.NotEqual(t, a, c)

	d := DocID("https://example.com/news/2", 0)
	assert.NotEqual(t, a, d)
}

func TestDocID_KnownValue(t *testing.T) {
	// sha256("https://example.com_0")，与历史索引保持一致，改动会破坏幂等重建
	assert.Equal(t,
		"83d6d1f8ccc64b4c665f4caad72b3528fb8a94824e09a30539d5016a1e7c4279",
		DocID("https://example.com", 0))
}

func TestSplit_Offsets(t *testing.T) {
	text := strings.Repeat("a", 7000)
	pieces := Split(text, 3200, 400)

	require.Len(t, pieces, 3)
	assert.Equal(t, 0, pieces[0].Index)
	assert.Equal(t, 3200, len(pieces[0].Content))
	assert.Equal(t, 3200, len(pieces[1].Content))
	// 最后一个窗口吸收剩余的 1400 个字符
	assert.Equal(t, 1400, len(pieces[2].Content))

	// 起始偏移 0 / 2800 / 5600，间隔 = window - overlap
	total := 0
	for i, p := range pieces {
		start := i * (3200 - 400)
		assert.Equal(t, i, p.Index)
		assert.Equal(t, text[start:start+len(p.Content)], p.Content)
		total = start + len(p.Content)
	}
	assert.Equal(t, len(text), total)
}

func TestSplit_ShortText(t *testing.T) {
	pieces := Split("hello world", 3200, 400)
	require.Len(t, pieces, 1)
	assert.Equal(t, "hello world", pieces[0].Content)
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, Split("", 3200, 400))
}

func TestSplit_InvalidArgs(t *testing.T) {
	assert.Empty(t, Split("text", 0, 0))
	assert.Empty(t, Split("text", 100, 100))
	assert.Empty(t, Split("text", 100, 200))
}

func TestSplit_MultiByte(t *testing.T) {
	text := strings.Repeat("新", 10)
	pieces := Split(text, 4, 1)
	require.Len(t, pieces, 3)
	assert.Equal(t, "新新新新", pieces[0].Content)
	// 窗口按字符而不是字节推进
	for _, p := range pieces {
		assert.LessOrEqual(t, len([]rune(p.Content)), 4)
	}
}
