package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Models.LLMModelName)
	assert.Equal(t, "nomic-embed-text", cfg.Models.EmbeddingModelName)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 5, cfg.Retrieval.TopKFinal)
	assert.True(t, cfg.Retrieval.UseRerank)
	assert.Equal(t, "react", cfg.Agent.AgenticMode)
	assert.False(t, cfg.Agent.UseMultiAgent)
	assert.Equal(t, 512, cfg.Processing.ChunkSize)
	assert.Equal(t, 50, cfg.Processing.ChunkOverlap)
	assert.Equal(t, "Contest_Data", filepath.Base(cfg.Paths.DataBaseDir))
}

func TestDataRootName(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataBaseDir = "/srv/corpus/Contest_Data"

	assert.Equal(t, "Contest_Data", cfg.DataRootName())
}

func TestDiscoverVectorStores(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"slovenia_codes", "italy_codes", "estonia_cases"} {
		require.NoError(t, os.Mkdir(filepath.Join(base, name), 0755))
	}
	// Loose files at the top level are not stores
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), []byte("x"), 0644))

	cfg := Default()
	cfg.Paths.DataBaseDir = base
	cfg.DiscoverVectorStores()

	assert.Equal(t, []string{
		filepath.Join(base, "estonia_cases"),
		filepath.Join(base, "italy_codes"),
		filepath.Join(base, "slovenia_codes"),
	}, cfg.Paths.VectorStoreDirs)
}

func TestDiscoverVectorStoresKeepsExplicitList(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataBaseDir = t.TempDir()
	cfg.Paths.VectorStoreDirs = []string{"/explicit/store"}

	cfg.DiscoverVectorStores()

	assert.Equal(t, []string{"/explicit/store"}, cfg.Paths.VectorStoreDirs)
}

func TestDiscoverVectorStoresMissingBaseDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataBaseDir = filepath.Join(t.TempDir(), "does-not-exist")

	cfg.DiscoverVectorStores()

	assert.Empty(t, cfg.Paths.VectorStoreDirs)
}
