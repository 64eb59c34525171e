package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordAppendsExactlyOneTurn(t *testing.T) {
	log := NewLog()
	docs := []DocumentReference{
		{
			Text: "Art. 5 of the divorce law provides...",
			Metadata: map[string]string{
				MetaSource:  "/home/x/Contest_Data/italy_codes/civil_code.pdf",
				MetaCountry: "italy",
				MetaLaw:     "codes",
			},
		},
	}
	metadata := map[string]any{"countries": []string{"italy"}}

	turn := log.Record("How is divorce regulated in Italy?", "Divorce in Italy is...", docs, metadata)

	require.Equal(t, 1, log.Len())
	assert.Equal(t, "How is divorce regulated in Italy?", turn.Question)
	assert.Equal(t, "Divorce in Italy is...", turn.Answer)
	assert.Equal(t, docs, turn.Documents)
	assert.Equal(t, metadata, turn.ExtractedMetadata)
	assert.False(t, turn.Timestamp.IsZero())

	log.Record("second question", "second answer", nil, nil)
	assert.Equal(t, 2, log.Len())
}

func TestLogRecordZeroDocumentsIsValid(t *testing.T) {
	log := NewLog()

	turn := log.Record("question", "I cannot answer that.", nil, nil)

	require.Equal(t, 1, log.Len())
	assert.Empty(t, turn.Documents)
}

func TestLogRecordDefaultsMissingMetadata(t *testing.T) {
	log := NewLog()

	turn := log.Record("q", "a", []DocumentReference{{Text: "some passage"}}, nil)

	require.Len(t, turn.Documents, 1)
	require.NotNil(t, turn.Documents[0].Metadata, "missing metadata must be stored as an empty map")
	assert.Empty(t, turn.Documents[0].Metadata)
}

func TestLogRecordCapturesIndependentCopies(t *testing.T) {
	log := NewLog()
	docs := []DocumentReference{
		{Text: "passage", Metadata: map[string]string{MetaSource: "/data/a.pdf"}},
	}

	log.Record("q", "a", docs, nil)

	// Mutating the caller's document must not reach the appended turn
	docs[0].Metadata[MetaSource] = "/data/changed.pdf"
	docs[0].Text = "changed"

	stored := log.Turns()[0].Documents[0]
	assert.Equal(t, "passage", stored.Text)
	assert.Equal(t, "/data/a.pdf", stored.Metadata[MetaSource])
}

func TestLogTurnsPreservesOrder(t *testing.T) {
	log := NewLog()
	log.Record("first", "a1", nil, nil)
	log.Record("second", "a2", nil, nil)
	log.Record("third", "a3", nil, nil)

	turns := log.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[0].Question)
	assert.Equal(t, "second", turns[1].Question)
	assert.Equal(t, "third", turns[2].Question)
}

func TestLogClearAlwaysEmpties(t *testing.T) {
	log := NewLog()
	assert.True(t, log.IsEmpty())

	log.Clear()
	assert.True(t, log.IsEmpty(), "clearing an empty log stays empty")

	for i := 0; i < 5; i++ {
		log.Record("q", "a", nil, nil)
	}
	require.False(t, log.IsEmpty())

	log.Clear()
	assert.True(t, log.IsEmpty())
	assert.Equal(t, 0, log.Len())
}

func TestLogAppend(t *testing.T) {
	log := NewLog()
	log.Append(Turn{Question: "q", Answer: "a"})

	require.Equal(t, 1, log.Len())
	assert.Equal(t, "q", log.Turns()[0].Question)
}
