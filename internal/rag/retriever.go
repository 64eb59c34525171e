package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pgvector/pgvector-go"

	"github.com/legal-rag/cli/internal/db"
	"github.com/legal-rag/cli/internal/embeddings"
)

// Retriever handles retrieval over the chunk store using vector
// similarity search
type Retriever struct {
	db      *db.DB
	textEmb *embeddings.TextEmbedder
}

// NewRetriever creates a new retriever
func NewRetriever(database *db.DB, textEmb *embeddings.TextEmbedder) *Retriever {
	return &Retriever{
		db:      database,
		textEmb: textEmb,
	}
}

// Retrieve finds the topK most similar chunks for a query. The query
// embedding is returned alongside so callers can rerank without
// re-embedding.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]*db.RetrievedChunk, *pgvector.Vector, error) {
	if topK <= 0 {
		topK = 5
	}

	queryEmbedding, err := r.textEmb.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	chunks, err := r.db.SearchSimilarChunks(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	return chunks, queryEmbedding, nil
}

// Rerank sorts chunks by cosine similarity to the query embedding and
// keeps the topKFinal best. Chunks without an embedding sort last. The
// sort is stable so ties keep the store's distance order.
func Rerank(query []float32, chunks []*db.RetrievedChunk, topKFinal int) []*db.RetrievedChunk {
	if topKFinal <= 0 || topKFinal > len(chunks) {
		topKFinal = len(chunks)
	}

	scored := make([]*db.RetrievedChunk, len(chunks))
	copy(scored, chunks)

	sort.SliceStable(scored, func(i, j int) bool {
		return chunkSimilarity(query, scored[i]) > chunkSimilarity(query, scored[j])
	})

	return scored[:topKFinal]
}

func chunkSimilarity(query []float32, chunk *db.RetrievedChunk) float64 {
	if chunk.Embedding == nil {
		return -1
	}
	return CosineSimilarity(query, chunk.Embedding.Slice())
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
