package session

import (
	"path"
	"strings"
)

// Metadata keys recognized on a retrieved document.
const (
	MetaSource  = "source"
	MetaCountry = "country"
	MetaLaw     = "law"
	MetaDBName  = "db_name"
)

// UnknownValue is the display placeholder for absent metadata. It is only
// ever produced by the summary view, never stored on the record itself.
const UnknownValue = "unknown"

// snippetLimit bounds the text prefix shown in the summary view.
const snippetLimit = 300

// DocumentReference is one retrieved evidentiary passage plus its
// provenance metadata, in the exact form the pipeline returned it.
type DocumentReference struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Source returns the raw source path, or "" when absent.
func (d DocumentReference) Source() string {
	return d.Metadata[MetaSource]
}

// DBName returns the explicit db_name, falling back to the parent
// directory name of the source path. Returns "" when neither exists.
func (d DocumentReference) DBName() string {
	if name := d.Metadata[MetaDBName]; name != "" {
		return name
	}
	return parentDirName(d.Source())
}

// DocumentSummary is the bounded, display-safe view of a document used by
// the UI. It is derived on read; the stored record keeps the full text and
// the metadata exactly as logged.
type DocumentSummary struct {
	DBName     string
	Country    string
	Law        string
	SourceName string
	Snippet    string
}

// Summary derives the display view. Absent country/law become "unknown"
// here and only here.
func (d DocumentReference) Summary() DocumentSummary {
	return DocumentSummary{
		DBName:     orUnknown(d.DBName()),
		Country:    orUnknown(d.Metadata[MetaCountry]),
		Law:        orUnknown(d.Metadata[MetaLaw]),
		SourceName: baseName(d.Source()),
		Snippet:    snippet(d.Text),
	}
}

func orUnknown(v string) string {
	if v == "" {
		return UnknownValue
	}
	return v
}

// snippet returns a bounded prefix of the document text.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return string(runes[:snippetLimit]) + "..."
}

// parentDirName extracts the parent directory name from a source path,
// tolerating both slash styles.
func parentDirName(source string) string {
	if source == "" {
		return ""
	}
	dir := path.Dir(normalizeSlashes(source))
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}

// baseName extracts the file name from a source path.
func baseName(source string) string {
	if source == "" {
		return ""
	}
	return path.Base(normalizeSlashes(source))
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
