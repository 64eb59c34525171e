package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ModelInfo represents information about an Ollama model
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// ListModelsResponse represents the response from listing models
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelSelector handles model selection logic
type ModelSelector struct {
	client *Client
}

// NewModelSelector creates a new model selector
func NewModelSelector(client *Client) *ModelSelector {
	return &ModelSelector{client: client}
}

// ListModels lists all available Ollama models
func (ms *ModelSelector) ListModels(ctx context.Context) ([]ModelInfo, error) {
	url := fmt.Sprintf("%s/api/tags", ms.client.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := ms.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, string(body))
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Models, nil
}

// SelectBestModel selects the best available model for legal reasoning
func (ms *ModelSelector) SelectBestModel(ctx context.Context) (string, error) {
	models, err := ms.ListModels(ctx)
	if err != nil {
		return "", err
	}

	if len(models) == 0 {
		return "", fmt.Errorf("no models available")
	}

	// Preference order for models that handle multi-step legal analysis
	priorityModels := []string{
		"llama3.2",
		"llama3.1",
		"qwen2.5",
		"mistral",
		"llama3",
	}

	for _, priority := range priorityModels {
		for _, model := range models {
			if strings.Contains(strings.ToLower(model.Name), priority) {
				return model.Name, nil
			}
		}
	}

	// No priority match; fall back to the largest installed model
	sort.Slice(models, func(i, j int) bool {
		return models[i].Size > models[j].Size
	})

	return models[0].Name, nil
}

// GetDefaultModel returns the configured model if installed, otherwise
// selects the best available one
func (ms *ModelSelector) GetDefaultModel(ctx context.Context, defaultModel string) (string, error) {
	if defaultModel != "" {
		models, err := ms.ListModels(ctx)
		if err != nil {
			return "", err
		}

		for _, model := range models {
			if model.Name == defaultModel {
				return defaultModel, nil
			}
		}
		// Configured model not installed, fall through
	}

	return ms.SelectBestModel(ctx)
}
