package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Writer serializes session documents as the evaluation JSON artifact:
// a two-space indented array containing exactly one session object.
type Writer struct{}

// Write serializes the document to w. HTML escaping is disabled so
// non-ASCII legal text survives byte-for-byte comparison across exports.
func (wr *Writer) Write(doc *SessionDocument, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode([]*SessionDocument{doc})
}

// Extension returns the file extension for the artifact.
func (wr *Writer) Extension() string {
	return "json"
}

// FileName builds the export file name for the given instant.
func FileName(now time.Time) string {
	return fmt.Sprintf("chat_session_%s.json", now.Format("20060102_150405"))
}

// WriteFile writes the document into dir using the timestamped file name
// and returns the full path.
func (wr *Writer) WriteFile(doc *SessionDocument, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &WriteError{Path: dir, Err: err}
	}

	path := filepath.Join(dir, FileName(time.Now()))
	file, err := os.Create(path)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	if err := wr.Write(doc, file); err != nil {
		_ = file.Close()
		return "", &WriteError{Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}
