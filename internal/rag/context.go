package rag

import (
	"fmt"
	"strings"

	"github.com/legal-rag/cli/internal/db"
)

// ContextBuilder builds LLM context and prompts from retrieved chunks
type ContextBuilder struct {
	maxTokens int
}

// NewContextBuilder creates a new context builder
func NewContextBuilder(maxTokens int) *ContextBuilder {
	if maxTokens <= 0 {
		maxTokens = 3000 // Default
	}
	return &ContextBuilder{
		maxTokens: maxTokens,
	}
}

// BuildContext creates a formatted context string from retrieved chunks,
// labeling each excerpt with its provenance
func (cb *ContextBuilder) BuildContext(chunks []*db.RetrievedChunk) string {
	var parts []string

	if len(chunks) > 0 {
		parts = append(parts, "## Relevant Legal Excerpts:")
		for i, chunk := range chunks {
			parts = append(parts, fmt.Sprintf("\n### Excerpt %d [%s / %s]:", i+1, chunk.Country, chunk.Law))
			parts = append(parts, chunk.Content)
			parts = append(parts, "")
		}
	}

	context := strings.Join(parts, "\n")

	// Truncate if too long (simple token estimation: ~4 chars per token)
	maxChars := cb.maxTokens * 4
	if len(context) > maxChars {
		context = context[:maxChars] + "\n\n[Context truncated...]"
	}

	return context
}

// BuildPrompt creates the single-agent prompt with context and question
func (cb *ContextBuilder) BuildPrompt(context, question string) string {
	var parts []string

	parts = append(parts, "You are a legal assistant specialized in divorce and inheritance law")
	parts = append(parts, "across Italy, Estonia, and Slovenia. Answer based only on the legal")
	parts = append(parts, "excerpts provided below, citing the relevant provisions.")
	parts = append(parts, "")

	if context != "" {
		parts = append(parts, context)
		parts = append(parts, "")
	}

	parts = append(parts, "## Question:")
	parts = append(parts, question)
	parts = append(parts, "")
	parts = append(parts, "Think step by step. If the excerpts do not contain the answer, say so")
	parts = append(parts, "explicitly rather than guessing.")

	return strings.Join(parts, "\n")
}

// BuildSpecialistPrompt creates the per-country specialist prompt used in
// multi-agent mode
func (cb *ContextBuilder) BuildSpecialistPrompt(country, context, question string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("You are a specialist in the law of %s.", country))
	parts = append(parts, "Summarize what the excerpts below establish about the question.")
	parts = append(parts, "Cite provisions precisely and note any gaps.")
	parts = append(parts, "")
	parts = append(parts, context)
	parts = append(parts, "")
	parts = append(parts, "## Question:")
	parts = append(parts, question)

	return strings.Join(parts, "\n")
}

// BuildSupervisorPrompt creates the supervisor prompt that merges
// specialist findings into the final answer
func (cb *ContextBuilder) BuildSupervisorPrompt(question string, countries []string, notes []string) string {
	var parts []string

	parts = append(parts, "You are a supervising legal analyst. Specialist agents have each")
	parts = append(parts, "analyzed the question for one jurisdiction. Merge their findings into")
	parts = append(parts, "a single well-structured answer, comparing jurisdictions where useful.")
	parts = append(parts, "")

	for i, country := range countries {
		parts = append(parts, fmt.Sprintf("## Findings for %s:", country))
		parts = append(parts, notes[i])
		parts = append(parts, "")
	}

	parts = append(parts, "## Question:")
	parts = append(parts, question)

	return strings.Join(parts, "\n")
}
