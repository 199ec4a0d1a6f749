package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DocID 根据来源 URL 与切片序号生成稳定的切片标识
// 相同的 (url, index) 在任何进程、任何时间都会得到同一个 ID，
// 因此重复跑一遍索引只会覆盖旧行而不会产生重复行
func DocID(url string, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", url, index)))
	return hex.EncodeToString(sum[:])
}

// Piece 一个切片窗口及其在文章内的序号
type Piece struct {
	Index   int
	Content string
}

// Split 将文本按固定窗口切片，相邻窗口之间保留 overlap 个字符的重叠，
// 末尾不足一个窗口的部分并入最后一个切片，保证不丢尾部内容。
// overlap 必须小于 windowSize，否则窗口无法前进
func Split(text string, windowSize, overlap int) []Piece {
	if windowSize <= 0 || overlap < 0 || overlap >= windowSize {
		return nil
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := windowSize - overlap
	var pieces []Piece
	for start := 0; start < len(runes); start += step {
		end := start + windowSize
		if end >= len(runes) {
			// 最后一个窗口吸收余下的全部文本
			pieces = append(pieces, Piece{
				Index:   len(pieces),
				Content: string(runes[start:]),
			})
			break
		}
		pieces = append(pieces, Piece{
			Index:   len(pieces),
			Content: string(runes[start:end]),
		})
	}
	return pieces
}
