// Package export turns a conversation log into the portable,
// evaluation-ready session document consumed by downstream tooling. The
// artifact shape (key names, user/assistant alternation, aligned contexts
// and source_ids, empty ground_truth) is a fixed external format.
package export

import (
	"strings"
	"time"

	"github.com/legal-rag/cli/internal/session"
)

// titleLimit is the number of characters of the first question kept as the
// session title before the truncation marker is applied.
const titleLimit = 60

// unknownSource is the source id used when a document carries no source at
// all.
const unknownSource = "unknown_source"

// SessionDocument is the exported session artifact. It is serialized as a
// single-element JSON array.
type SessionDocument struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	History []any  `json:"history"`
}

// UserEntry is one user-role history entry.
type UserEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AssistantEntry is one assistant-role history entry. Contexts and
// SourceIDs are index-aligned: entry i of each refers to the same retrieved
// document. GroundTruth is always empty; it is reserved for manual
// annotation downstream.
type AssistantEntry struct {
	Role        string   `json:"role"`
	Content     string   `json:"content"`
	Contexts    []string `json:"contexts"`
	SourceIDs   []string `json:"source_ids"`
	GroundTruth string   `json:"ground_truth"`
}

// SourceID is the outcome of canonicalizing one document source path.
// Modeling the fallback as data rather than control flow keeps the
// degrade-one-entry semantics explicit.
type SourceID struct {
	ID          string
	Relativized bool
}

// Transform builds the session document from a conversation log. The
// result is deterministic for a given log and data root name; only the
// time-derived ID varies between calls.
func Transform(log *session.Log, dataRootName string) (*SessionDocument, error) {
	if log.IsEmpty() {
		return nil, ErrNoConversation
	}

	turns := log.Turns()

	history := make([]any, 0, 2*len(turns))
	for _, turn := range turns {
		history = append(history, UserEntry{
			Role:    "user",
			Content: turn.Question,
		})

		contexts := make([]string, 0, len(turn.Documents))
		sourceIDs := make([]string, 0, len(turn.Documents))
		for _, doc := range turn.Documents {
			contexts = append(contexts, strings.TrimSpace(doc.Text))
			sourceIDs = append(sourceIDs, CanonicalSourceID(doc.Source(), dataRootName).ID)
		}

		history = append(history, AssistantEntry{
			Role:        "assistant",
			Content:     turn.Answer,
			Contexts:    contexts,
			SourceIDs:   sourceIDs,
			GroundTruth: "",
		})
	}

	return &SessionDocument{
		ID:      time.Now().Unix(),
		Title:   sessionTitle(turns[0].Question),
		History: history,
	}, nil
}

// CanonicalSourceID rewrites an absolute source path relative to the data
// root, root-inclusive. A path that does not contain the root name falls
// back to the original string unchanged; an absent source becomes the
// "unknown_source" sentinel. Failure to relativize one source never affects
// other entries.
func CanonicalSourceID(source, dataRootName string) SourceID {
	if source == "" {
		return SourceID{ID: unknownSource}
	}

	if dataRootName != "" {
		normalized := strings.ReplaceAll(source, "\\", "/")
		if idx := strings.Index(normalized, dataRootName+"/"); idx >= 0 {
			return SourceID{ID: normalized[idx:], Relativized: true}
		}
	}

	return SourceID{ID: source}
}

// sessionTitle derives the document title from the first question,
// truncating at titleLimit characters with an ellipsis marker only when
// truncation occurred.
func sessionTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= titleLimit {
		return question
	}
	return string(runes[:titleLimit]) + "..."
}
