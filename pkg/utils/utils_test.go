package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0, 1}, []float32{1, 0, 1}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, float64(0), Cosine([]float32{1, 0}, []float32{1, 0, 1}))
	assert.Equal(t, float64(0), Cosine(nil, nil))
}

func TestWhatLang(t *testing.T) {
	assert.Equal(t, "en", WhatLang("The quick brown fox jumps over the lazy dog, and the market reacted strongly to the announcement."))
	assert.Equal(t, "", WhatLang(""))
}

func TestNormalizeLangCode(t *testing.T) {
	assert.Equal(t, "en", NormalizeLangCode("eng"))
	assert.Equal(t, "zh", NormalizeLangCode("zho"))
	assert.Equal(t, "zh", NormalizeLangCode("cmn"))
	assert.Equal(t, "en", NormalizeLangCode("EN"))
	assert.Equal(t, "fr", NormalizeLangCode(" fr "))
	assert.Equal(t, "", NormalizeLangCode("xyz"))
	assert.Equal(t, "", NormalizeLangCode(""))
}

func TestRandom(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := Random(1, 3)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
	}
	assert.Equal(t, 5, Random(5, 5))
}
