package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-rag/cli/internal/db"
	"github.com/legal-rag/cli/internal/session"
)

func provenanceChunk(content, country, law, dbName, filePath string) *db.RetrievedChunk {
	c := &db.RetrievedChunk{
		Country:  country,
		Law:      law,
		DBName:   dbName,
		FilePath: filePath,
	}
	c.Content = content
	return c
}

func TestToDocumentReferencesOmitsAbsentFields(t *testing.T) {
	chunks := []*db.RetrievedChunk{
		provenanceChunk("full provenance", "italy", "codes", "italy_codes", "/data/Contest_Data/italy_codes/civil_code.pdf"),
		provenanceChunk("bare content", "", "", "", ""),
	}

	docs := toDocumentReferences(chunks)
	require.Len(t, docs, 2)

	full := docs[0]
	assert.Equal(t, "full provenance", full.Text)
	assert.Equal(t, "italy", full.Metadata[session.MetaCountry])
	assert.Equal(t, "codes", full.Metadata[session.MetaLaw])
	assert.Equal(t, "italy_codes", full.Metadata[session.MetaDBName])
	assert.Equal(t, "/data/Contest_Data/italy_codes/civil_code.pdf", full.Metadata[session.MetaSource])

	bare := docs[1]
	require.NotNil(t, bare.Metadata)
	assert.Empty(t, bare.Metadata, "absent provenance stays absent rather than defaulted")
}

func TestToDocumentReferencesEmptyInput(t *testing.T) {
	docs := toDocumentReferences(nil)

	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestGroupByCountryPreservesFirstSeenOrder(t *testing.T) {
	chunks := []*db.RetrievedChunk{
		provenanceChunk("a", "slovenia", "codes", "", ""),
		provenanceChunk("b", "italy", "codes", "", ""),
		provenanceChunk("c", "slovenia", "cases", "", ""),
		provenanceChunk("d", "", "", "", ""),
	}

	groups, countries := groupByCountry(chunks)

	assert.Equal(t, []string{"slovenia", "italy", "general"}, countries)
	assert.Len(t, groups["slovenia"], 2)
	assert.Len(t, groups["italy"], 1)
	assert.Len(t, groups["general"], 1)
	assert.Equal(t, "a", groups["slovenia"][0].Content)
	assert.Equal(t, "c", groups["slovenia"][1].Content)
}

func TestExtractMetadata(t *testing.T) {
	chunks := []*db.RetrievedChunk{
		provenanceChunk("a", "italy", "codes", "", ""),
		provenanceChunk("b", "italy", "cases", "", ""),
		provenanceChunk("c", "estonia", "codes", "", ""),
	}

	meta := extractMetadata(chunks)
	require.NotNil(t, meta)

	assert.Equal(t, []string{"italy", "estonia"}, meta["countries"])
	assert.Equal(t, []string{"codes", "cases"}, meta["laws"])
	assert.Equal(t, 3, meta["num_sources"])
}

func TestExtractMetadataNoChunks(t *testing.T) {
	assert.Nil(t, extractMetadata(nil))
}
