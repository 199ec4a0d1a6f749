package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizer(t *testing.T) {
	l := NewLocalizer("en", "zh-CN")

	assert.Equal(t, "Internal error, please try again later", l.Get("en", ERROR_INTERNAL))
	assert.Equal(t, "资源不存在", l.Get("zh-CN", ERROR_NOT_FOUND))
	// 未注册的语言回退为消息 ID
	assert.Equal(t, ERROR_INTERNAL, l.Get("fr", ERROR_INTERNAL))
}
