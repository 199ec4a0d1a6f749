package utils

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// EventRegistry 等新闻源用 ISO 639-3 标注语言，内部统一 639-1
var iso3to1 = map[string]string{
	"eng": "en",
	"spa": "es",
	"fra": "fr",
	"deu": "de",
	"zho": "zh",
	"cmn": "zh",
	"rus": "ru",
}

// NormalizeLangCode 折算为 ISO 639-1，未知代码返回空串交给语言检测
func NormalizeLangCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) == 2 {
		return code
	}
	if v, ok := iso3to1[code]; ok {
		return v
	}
	return ""
}

var whatLangOpts = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Spa: true,
		whatlanggo.Fra: true,
		whatlanggo.Deu: true,
		whatlanggo.Cmn: true,
		whatlanggo.Rus: true,
	},
}

// WhatLang 返回文本语言的 ISO 639-1 代码，置信度不足时返回空串
func WhatLang(text string) string {
	if text == "" {
		return ""
	}
	info := whatlanggo.DetectWithOptions(text, whatLangOpts)
	if info.Confidence < 0.5 {
		return ""
	}
	return info.Lang.Iso6391()
}
