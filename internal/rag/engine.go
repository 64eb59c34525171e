package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/legal-rag/cli/config"
	"github.com/legal-rag/cli/internal/db"
	"github.com/legal-rag/cli/internal/embeddings"
	"github.com/legal-rag/cli/internal/ollama"
	"github.com/legal-rag/cli/internal/session"
)

// Engine is the Ollama-backed Pipeline implementation
type Engine struct {
	retriever      *Retriever
	contextBuilder *ContextBuilder
	llm            *ollama.Client
}

// NewEngine creates a new pipeline engine
func NewEngine(database *db.DB, textEmb *embeddings.TextEmbedder, llm *ollama.Client) *Engine {
	return &Engine{
		retriever:      NewRetriever(database, textEmb),
		contextBuilder: NewContextBuilder(3000),
		llm:            llm,
	}
}

// AnswerQuestion runs retrieval and generation for one question. On any
// error the partial work is discarded and the error is returned; no
// degraded answer is produced.
func (e *Engine) AnswerQuestion(ctx context.Context, question string, cfg *config.Config, showReasoning bool) (*Result, error) {
	var trace strings.Builder

	chunks, queryVec, err := e.retriever.Retrieve(ctx, question, cfg.Retrieval.TopK)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&trace, "Retrieved %d chunks (top_k=%d)\n", len(chunks), cfg.Retrieval.TopK)

	if cfg.Retrieval.UseRerank {
		chunks = Rerank(queryVec.Slice(), chunks, cfg.Retrieval.TopKFinal)
		fmt.Fprintf(&trace, "Reranked by cosine similarity to %d chunks (top_k_final=%d)\n", len(chunks), cfg.Retrieval.TopKFinal)
	} else if cfg.Retrieval.TopKFinal > 0 && cfg.Retrieval.TopKFinal < len(chunks) {
		chunks = chunks[:cfg.Retrieval.TopKFinal]
		fmt.Fprintf(&trace, "Kept first %d chunks (rerank disabled)\n", len(chunks))
	}

	var answer string
	if cfg.Agent.UseMultiAgent {
		answer, err = e.answerMultiAgent(ctx, question, cfg, chunks, &trace)
	} else {
		answer, err = e.answerSingleAgent(ctx, question, cfg, chunks, &trace)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Answer:    answer,
		Documents: toDocumentReferences(chunks),
		Metadata:  extractMetadata(chunks),
	}
	if showReasoning {
		result.Reasoning = trace.String()
	}
	return result, nil
}

// answerSingleAgent runs one ReAct-style generation pass over the full
// context
func (e *Engine) answerSingleAgent(ctx context.Context, question string, cfg *config.Config, chunks []*db.RetrievedChunk, trace *strings.Builder) (string, error) {
	context := e.contextBuilder.BuildContext(chunks)
	prompt := e.contextBuilder.BuildPrompt(context, question)
	fmt.Fprintf(trace, "Mode: single agent (%s)\n", cfg.Agent.AgenticMode)

	answer, err := e.llm.Generate(ctx, &ollama.GenerateRequest{
		Model:  cfg.Models.LLMModelName,
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return answer, nil
}

// answerMultiAgent runs one specialist pass per jurisdiction found in the
// retrieved chunks, then a supervisor pass merging the findings
func (e *Engine) answerMultiAgent(ctx context.Context, question string, cfg *config.Config, chunks []*db.RetrievedChunk, trace *strings.Builder) (string, error) {
	groups, countries := groupByCountry(chunks)
	fmt.Fprintf(trace, "Mode: multi-agent supervisor over %d jurisdiction(s)\n", len(countries))

	var notes []string
	for _, country := range countries {
		context := e.contextBuilder.BuildContext(groups[country])
		prompt := e.contextBuilder.BuildSpecialistPrompt(country, context, question)

		note, err := e.llm.Generate(ctx, &ollama.GenerateRequest{
			Model:  cfg.Models.LLMModelName,
			Prompt: prompt,
		})
		if err != nil {
			return "", fmt.Errorf("specialist generation failed for %s: %w", country, err)
		}
		notes = append(notes, note)
		fmt.Fprintf(trace, "Specialist %s produced %d characters\n", country, len(note))
	}

	prompt := e.contextBuilder.BuildSupervisorPrompt(question, countries, notes)
	answer, err := e.llm.Generate(ctx, &ollama.GenerateRequest{
		Model:  cfg.Models.LLMModelName,
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("supervisor generation failed: %w", err)
	}
	return answer, nil
}

// groupByCountry groups chunks by jurisdiction, preserving first-seen
// order. Chunks without a country fall into a "general" group.
func groupByCountry(chunks []*db.RetrievedChunk) (map[string][]*db.RetrievedChunk, []string) {
	groups := make(map[string][]*db.RetrievedChunk)
	var countries []string

	for _, chunk := range chunks {
		country := chunk.Country
		if country == "" {
			country = "general"
		}
		if _, seen := groups[country]; !seen {
			countries = append(countries, country)
		}
		groups[country] = append(groups[country], chunk)
	}
	return groups, countries
}

// toDocumentReferences converts retrieved chunks into the document
// references the session core logs. Absent provenance fields stay absent;
// display defaults are the UI's concern.
func toDocumentReferences(chunks []*db.RetrievedChunk) []session.DocumentReference {
	docs := make([]session.DocumentReference, 0, len(chunks))
	for _, chunk := range chunks {
		metadata := map[string]string{}
		if chunk.FilePath != "" {
			metadata[session.MetaSource] = chunk.FilePath
		}
		if chunk.Country != "" {
			metadata[session.MetaCountry] = chunk.Country
		}
		if chunk.Law != "" {
			metadata[session.MetaLaw] = chunk.Law
		}
		if chunk.DBName != "" {
			metadata[session.MetaDBName] = chunk.DBName
		}

		docs = append(docs, session.DocumentReference{
			Text:     chunk.Content,
			Metadata: metadata,
		})
	}
	return docs
}

// extractMetadata builds the structured metadata mapping attached to the
// turn: which jurisdictions and law kinds the evidence spans.
func extractMetadata(chunks []*db.RetrievedChunk) map[string]any {
	if len(chunks) == 0 {
		return nil
	}

	var countries, laws []string
	seenCountry := make(map[string]bool)
	seenLaw := make(map[string]bool)
	for _, chunk := range chunks {
		if chunk.Country != "" && !seenCountry[chunk.Country] {
			seenCountry[chunk.Country] = true
			countries = append(countries, chunk.Country)
		}
		if chunk.Law != "" && !seenLaw[chunk.Law] {
			seenLaw[chunk.Law] = true
			laws = append(laws, chunk.Law)
		}
	}

	return map[string]any{
		"countries":   countries,
		"laws":        laws,
		"num_sources": len(chunks),
	}
}
