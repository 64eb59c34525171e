package documents

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/legal-rag/cli/internal/db"
	"github.com/legal-rag/cli/internal/embeddings"
	"github.com/legal-rag/cli/internal/logging"
)

// Provenance describes where a corpus document came from. The db_name is
// the corpus subdirectory name (e.g. "italy_codes"); country and law are
// derived from it.
type Provenance struct {
	DBName  string
	Country string
	Law     string
}

// Processor handles corpus ingestion with incremental updates
type Processor struct {
	db           *db.DB
	textEmb      *embeddings.TextEmbedder
	pdfParser    *PDFParser
	textParser   *TextParser
	chunkSize    int
	chunkOverlap int
}

// NewProcessor creates a new document processor
func NewProcessor(database *db.DB, textEmb *embeddings.TextEmbedder, chunkSize, chunkOverlap int) *Processor {
	return &Processor{
		db:           database,
		textEmb:      textEmb,
		pdfParser:    NewPDFParser(),
		textParser:   NewTextParser(),
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ProcessCorpus walks the corpus directories and ingests every supported
// document found. Failures on individual files are logged and skipped so
// one bad file does not abort the whole ingest.
func (p *Processor) ProcessCorpus(ctx context.Context, storeDirs []string) error {
	if len(storeDirs) == 0 {
		return fmt.Errorf("no corpus directories configured")
	}

	for _, dir := range storeDirs {
		prov := DeriveProvenance(filepath.Base(dir))

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !supportedFile(path) {
				return nil
			}

			if err := p.ProcessDocument(ctx, path, prov); err != nil {
				logging.Warnf("skipping %s: %v", path, err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk corpus directory %s: %w", dir, err)
		}
	}
	return nil
}

// ProcessDocument ingests one document if it is new or changed
func (p *Processor) ProcessDocument(ctx context.Context, filePath string, prov Provenance) error {
	hash, err := computeFileHash(filePath)
	if err != nil {
		return fmt.Errorf("failed to compute hash: %w", err)
	}

	existingDoc, err := p.db.GetDocumentByHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to check existing document: %w", err)
	}
	if existingDoc != nil {
		// Already ingested, skip
		return nil
	}

	// A record for the same path with a different hash is a stale version
	// of a changed file; drop it and its chunks before re-ingesting
	stale, err := p.db.GetDocumentByPath(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check stale document: %w", err)
	}
	if stale != nil {
		if err := p.db.DeleteDocument(ctx, stale.ID); err != nil {
			return fmt.Errorf("failed to delete stale document: %w", err)
		}
		logging.Infof("re-ingesting changed file %s", filePath)
	}

	fileType, parser, err := p.parserFor(filePath)
	if err != nil {
		return err
	}

	doc, err := p.db.CreateDocument(ctx, &db.Document{
		FilePath: filePath,
		FileHash: hash,
		FileType: fileType,
		DBName:   prov.DBName,
		Country:  prov.Country,
		Law:      prov.Law,
	})
	if err != nil {
		return fmt.Errorf("failed to create document record: %w", err)
	}

	parsed, err := parser.Parse(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	if err := p.processTextChunks(ctx, doc.ID, parsed.Text); err != nil {
		return fmt.Errorf("failed to process text chunks: %w", err)
	}

	if err := p.db.UpdateDocumentProcessed(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to update processed timestamp: %w", err)
	}

	logging.Infof("ingested %s (%s)", filePath, prov.DBName)
	return nil
}

// parserFor picks the parser for a file based on its extension
func (p *Processor) parserFor(filePath string) (string, Parser, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return "pdf", p.pdfParser, nil
	case ".txt", ".md":
		return "text", p.textParser, nil
	default:
		return "", nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func supportedFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// processTextChunks splits text into chunks and generates embeddings
func (p *Processor) processTextChunks(ctx context.Context, docID uuid.UUID, text string) error {
	chunks := p.splitText(text)
	if len(chunks) == 0 {
		return nil
	}

	chunkData := make([]*db.Chunk, 0, len(chunks))
	for i, chunkText := range chunks {
		embedding, err := p.textEmb.Embed(ctx, chunkText)
		if err != nil {
			return fmt.Errorf("failed to generate embedding for chunk %d: %w", i, err)
		}

		chunkData = append(chunkData, &db.Chunk{
			ID:         uuid.New(),
			DocumentID: docID,
			ChunkIndex: i,
			Content:    chunkText,
			Embedding:  embedding,
		})
	}

	return p.db.InsertChunksBatch(ctx, chunkData)
}

// splitText splits text into chunks with overlap
func (p *Processor) splitText(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	currentChunk := []string{}
	currentSize := 0

	for _, word := range words {
		wordSize := len(word) + 1 // +1 for space
		if currentSize+wordSize > p.chunkSize && len(currentChunk) > 0 {
			chunks = append(chunks, strings.Join(currentChunk, " "))

			// Keep overlap words for the next chunk
			overlapWords := len(currentChunk) * p.chunkOverlap / 100
			if overlapWords > 0 && overlapWords < len(currentChunk) {
				currentChunk = currentChunk[len(currentChunk)-overlapWords:]
				currentSize = len(strings.Join(currentChunk, " "))
			} else {
				currentChunk = []string{}
				currentSize = 0
			}
		}
		currentChunk = append(currentChunk, word)
		currentSize += wordSize
	}

	if len(currentChunk) > 0 {
		chunks = append(chunks, strings.Join(currentChunk, " "))
	}

	return chunks
}

// DeriveProvenance derives country and law kind from a corpus directory
// name shaped like "<country>_<kind>" (e.g. "italy_codes", "estonia_cases").
// Names without an underscore keep the whole name as db_name only.
func DeriveProvenance(dbName string) Provenance {
	prov := Provenance{DBName: dbName}
	if idx := strings.Index(dbName, "_"); idx > 0 {
		prov.Country = dbName[:idx]
		prov.Law = dbName[idx+1:]
	}
	return prov
}

// computeFileHash computes SHA256 hash of a file
func computeFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
