package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legal-rag/cli/config"
	"github.com/legal-rag/cli/internal/session"
)

func newTestSettingsModel() *settingsModel {
	app := &App{
		cfg: config.Default(),
		log: session.NewLog(),
	}
	return newSettingsModel(app)
}

func TestSettingsStoresCorpusStats(t *testing.T) {
	sm := newTestSettingsModel()

	sm.update(corpusStatsMsg{documents: 12, chunks: 340})

	out := sm.view()
	assert.Contains(t, out, "Indexed: 12 documents, 340 chunks")
}

func TestSettingsViewOmitsStatsUntilLoaded(t *testing.T) {
	sm := newTestSettingsModel()

	assert.NotContains(t, sm.view(), "Indexed:")
}

func TestSettingsAdjustClampsRetrievalBounds(t *testing.T) {
	sm := newTestSettingsModel()
	cfg := sm.app.cfg

	sm.selected = settingTopK
	for i := 0; i < 30; i++ {
		sm.adjust(1)
	}
	assert.Equal(t, 20, cfg.Retrieval.TopK)

	for i := 0; i < 30; i++ {
		sm.adjust(-1)
	}
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.LessOrEqual(t, cfg.Retrieval.TopKFinal, cfg.Retrieval.TopK,
		"top_k_final never exceeds top_k")

	sm.selected = settingTopKFinal
	for i := 0; i < 30; i++ {
		sm.adjust(1)
	}
	assert.Equal(t, cfg.Retrieval.TopK, cfg.Retrieval.TopKFinal)

	for i := 0; i < 30; i++ {
		sm.adjust(-1)
	}
	assert.Equal(t, 3, cfg.Retrieval.TopKFinal)
}
