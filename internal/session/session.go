// Package session holds the in-memory model of one legal Q&A conversation:
// the append-only log of turns and the raw document references each turn
// captured for later evaluation export.
package session

import (
	"time"
)

// Turn is one question/answer exchange with its retrieved evidence.
// A Turn is immutable once appended to the Log.
type Turn struct {
	Timestamp         time.Time           `json:"timestamp"`
	Question          string              `json:"question"`
	Answer            string              `json:"answer"`
	Documents         []DocumentReference `json:"documents"`
	ExtractedMetadata map[string]any      `json:"extracted_metadata,omitempty"`
}

// Log is the ordered, append-only conversation history for one session.
// It has exactly one writer and lives for the process lifetime; it is
// never persisted automatically.
type Log struct {
	turns []Turn
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Record captures one completed exchange as a new Turn and appends it.
// Logging is best-effort and never fails: a document with missing metadata
// is stored with an empty metadata map rather than rejected. The pipeline's
// document order is preserved and never re-sorted.
func (l *Log) Record(question, answer string, docs []DocumentReference, metadata map[string]any) Turn {
	captured := make([]DocumentReference, len(docs))
	for i, doc := range docs {
		captured[i] = DocumentReference{
			Text:     doc.Text,
			Metadata: cloneMetadata(doc.Metadata),
		}
	}

	turn := Turn{
		Timestamp:         time.Now(),
		Question:          question,
		Answer:            answer,
		Documents:         captured,
		ExtractedMetadata: metadata,
	}
	l.turns = append(l.turns, turn)
	return turn
}

// Append adds an already-built Turn to the log.
func (l *Log) Append(turn Turn) {
	l.turns = append(l.turns, turn)
}

// Turns returns the turns in chronological order. The returned slice is a
// copy so appended turns cannot be mutated through it.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of recorded turns.
func (l *Log) Len() int {
	return len(l.turns)
}

// IsEmpty reports whether no turns have been recorded.
func (l *Log) IsEmpty() bool {
	return len(l.turns) == 0
}

// Clear discards all turns irreversibly. Confirmation, if any, is a UI
// concern.
func (l *Log) Clear() {
	l.turns = nil
}

// cloneMetadata copies a metadata map so the stored turn stays independent
// of the caller. A nil map becomes an empty one.
func cloneMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
