package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-rag/cli/internal/session"
)

func sampleDocument(t *testing.T) *SessionDocument {
	t.Helper()

	log := session.NewLog()
	log.Record(
		"Come è regolato il divorzio in Italia?",
		"Il divorzio è regolato...",
		[]session.DocumentReference{
			{
				Text:     "Art. 5 della legge sul divorzio",
				Metadata: map[string]string{session.MetaSource: "/home/x/Contest_Data/italy_codes/civil_code.pdf"},
			},
		},
		nil,
	)

	doc, err := Transform(log, "Contest_Data")
	require.NoError(t, err)
	return doc
}

func TestWriterSingleElementArray(t *testing.T) {
	doc := sampleDocument(t)

	var buf bytes.Buffer
	wr := &Writer{}
	require.NoError(t, wr.Write(doc, &buf))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)

	top := decoded[0]
	assert.Contains(t, top, "id")
	assert.Contains(t, top, "title")
	assert.Contains(t, top, "history")

	history, ok := top["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 2)

	user := history[0].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "contexts")
	assert.NotContains(t, user, "ground_truth")

	assistant := history[1].(map[string]any)
	assert.Equal(t, "assistant", assistant["role"])
	assert.Contains(t, assistant, "contexts")
	assert.Contains(t, assistant, "source_ids")
	assert.Equal(t, "", assistant["ground_truth"])
}

func TestWriterIndentationAndEscaping(t *testing.T) {
	doc := sampleDocument(t)

	var buf bytes.Buffer
	wr := &Writer{}
	require.NoError(t, wr.Write(doc, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n  {"), "array indented with two spaces")
	assert.Contains(t, out, "è", "non-ASCII text must not be escaped")
	assert.NotContains(t, out, `\u00e8`, "encoder must emit raw UTF-8, not escapes")
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.Equal(t, "chat_session_20250314_092653.json", FileName(now))
}

func TestWriterWriteFile(t *testing.T) {
	doc := sampleDocument(t)
	dir := filepath.Join(t.TempDir(), "exports")

	wr := &Writer{}
	path, err := wr.WriteFile(doc, dir)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "chat_session_"))
	assert.True(t, strings.HasSuffix(base, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, doc.Title, decoded[0]["title"])
}
