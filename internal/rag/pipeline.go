// Package rag implements the question-answering pipeline: retrieval over
// the legal corpus, optional reranking, and Ollama-backed generation in
// single-agent or supervisor-coordinated multi-agent mode.
package rag

import (
	"context"

	"github.com/legal-rag/cli/config"
	"github.com/legal-rag/cli/internal/session"
)

// Result is everything one pipeline invocation produces.
type Result struct {
	Answer    string
	Documents []session.DocumentReference
	Reasoning string
	Metadata  map[string]any
}

// Pipeline answers legal questions against the ingested corpus. Errors are
// propagated to the caller; a failed invocation must leave no trace in the
// conversation log.
type Pipeline interface {
	AnswerQuestion(ctx context.Context, question string, cfg *config.Config, showReasoning bool) (*Result, error)
}
