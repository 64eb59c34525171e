package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentDBName(t *testing.T) {
	tests := []struct {
		name string
		doc  DocumentReference
		want string
	}{
		{
			name: "explicit db_name wins",
			doc: DocumentReference{Metadata: map[string]string{
				MetaDBName: "italy_codes",
				MetaSource: "/home/x/Contest_Data/estonia_cases/ruling.pdf",
			}},
			want: "italy_codes",
		},
		{
			name: "derived from parent directory",
			doc: DocumentReference{Metadata: map[string]string{
				MetaSource: "/home/x/Contest_Data/estonia_cases/ruling.pdf",
			}},
			want: "estonia_cases",
		},
		{
			name: "windows separators",
			doc: DocumentReference{Metadata: map[string]string{
				MetaSource: `C:\data\Contest_Data\slovenia_codes\family_act.pdf`,
			}},
			want: "slovenia_codes",
		},
		{
			name: "no source",
			doc:  DocumentReference{Metadata: map[string]string{}},
			want: "",
		},
		{
			name: "bare file name has no parent",
			doc:  DocumentReference{Metadata: map[string]string{MetaSource: "file.pdf"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.DBName())
		})
	}
}

func TestDocumentSummaryDisplayDefaults(t *testing.T) {
	doc := DocumentReference{
		Text: "A short passage.",
		Metadata: map[string]string{
			MetaSource: "/home/x/Contest_Data/italy_codes/civil_code.pdf",
		},
	}

	summary := doc.Summary()

	assert.Equal(t, "italy_codes", summary.DBName)
	assert.Equal(t, UnknownValue, summary.Country)
	assert.Equal(t, UnknownValue, summary.Law)
	assert.Equal(t, "civil_code.pdf", summary.SourceName)
	assert.Equal(t, "A short passage.", summary.Snippet)

	// Deriving the summary must not write defaults back into the record
	assert.NotContains(t, doc.Metadata, MetaCountry)
	assert.NotContains(t, doc.Metadata, MetaLaw)
}

func TestDocumentSummarySnippetBounded(t *testing.T) {
	long := strings.Repeat("x", 500)
	doc := DocumentReference{Text: long, Metadata: map[string]string{}}

	summary := doc.Summary()

	assert.Equal(t, strings.Repeat("x", 300)+"...", summary.Snippet)
}

func TestDocumentSummaryPassThrough(t *testing.T) {
	doc := DocumentReference{
		Text: "passage",
		Metadata: map[string]string{
			MetaSource:  "/data/Contest_Data/estonia_codes/succession_act.pdf",
			MetaCountry: "estonia",
			MetaLaw:     "codes",
		},
	}

	summary := doc.Summary()

	assert.Equal(t, "estonia", summary.Country)
	assert.Equal(t, "codes", summary.Law)
}
