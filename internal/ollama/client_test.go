package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccumulatesStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "POST", r.Method)

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)

		enc := json.NewEncoder(w)
		_ = enc.Encode(GenerateResponse{Response: "Divorce in Italy "})
		_ = enc.Encode(GenerateResponse{Response: "is regulated by law 898/1970."})
		_ = enc.Encode(GenerateResponse{Done: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	answer, err := client.Generate(context.Background(), &GenerateRequest{
		Model:  "llama3.2",
		Prompt: "How is divorce regulated in Italy?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Divorce in Italy is regulated by law 898/1970.", answer)
}

func TestGenerateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Generate(context.Background(), &GenerateRequest{Model: "missing", Prompt: "q"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGenerateStreamInvokesCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		_ = enc.Encode(GenerateResponse{Response: "first "})
		_ = enc.Encode(GenerateResponse{Response: "second"})
		_ = enc.Encode(GenerateResponse{Done: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var chunks []string
	err := client.GenerateStream(context.Background(), &GenerateRequest{Model: "m", Prompt: "q"}, func(chunk string) {
		chunks = append(chunks, chunk)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first ", "second"}, chunks)
}
