package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupConfigFromEnv(t *testing.T) {
	addr := "localhost:11111"
	os.Setenv("NEWSRADAR_SERVICE_ADDRESS", addr)

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, cfg.Addr, addr)
}

func TestRetrievalConfigDefaults(t *testing.T) {
	var cfg RetrievalConfig
	cfg.ApplyDefaults()

	assert.Equal(t, uint64(2000), cfg.CandidateLimit)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 8000, cfg.ContextBudget)
}
