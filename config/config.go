package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config holds the RAG application configuration
type Config struct {
	Database struct {
		ConnectionString string `yaml:"connection_string"`
	} `yaml:"database"`
	Ollama struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"ollama"`
	Models struct {
		LLMModelName       string `yaml:"llm_model_name"`
		EmbeddingModelName string `yaml:"embedding_model_name"`
	} `yaml:"models"`
	Retrieval struct {
		TopK      int  `yaml:"top_k"`
		TopKFinal int  `yaml:"top_k_final"`
		UseRerank bool `yaml:"use_rerank"`
	} `yaml:"retrieval"`
	Agent struct {
		AgenticMode   string `yaml:"agentic_mode"`
		UseMultiAgent bool   `yaml:"use_multiagent"`
	} `yaml:"agent"`
	Processing struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"processing"`
	Paths struct {
		DataBaseDir     string   `yaml:"data_base_dir"`
		VectorStoreDirs []string `yaml:"vector_store_dirs"`
	} `yaml:"paths"`
}

// Load loads configuration from file or returns defaults
func Load() (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(os.Getenv("HOME"), ".legal-rag", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.DiscoverVectorStores()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.DiscoverVectorStores()
	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".legal-rag")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Database.ConnectionString = "postgres://postgres@localhost/postgres?sslmode=disable"
	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.Models.LLMModelName = "llama3.2"
	cfg.Models.EmbeddingModelName = "nomic-embed-text"
	cfg.Retrieval.TopK = 10
	cfg.Retrieval.TopKFinal = 5
	cfg.Retrieval.UseRerank = true
	cfg.Agent.AgenticMode = "react"
	cfg.Agent.UseMultiAgent = false
	cfg.Processing.ChunkSize = 512
	cfg.Processing.ChunkOverlap = 50

	homeDir := os.Getenv("HOME")
	cfg.Paths.DataBaseDir = filepath.Join(homeDir, "Contest_Data")

	return cfg
}

// DataRootName returns the final path component of the data base directory.
// Exported session documents reference sources relative to this name.
func (c *Config) DataRootName() string {
	return filepath.Base(c.Paths.DataBaseDir)
}

// DiscoverVectorStores scans the data base directory for corpus
// subdirectories and fills in VectorStoreDirs when the config file does
// not list them explicitly. Results are sorted for stable display.
func (c *Config) DiscoverVectorStores() {
	if len(c.Paths.VectorStoreDirs) > 0 {
		return
	}

	entries, err := os.ReadDir(c.Paths.DataBaseDir)
	if err != nil {
		return
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(c.Paths.DataBaseDir, entry.Name()))
		}
	}
	sort.Strings(dirs)
	c.Paths.VectorStoreDirs = dirs
}
