package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Document represents an ingested corpus document with its provenance
type Document struct {
	ID          uuid.UUID
	FilePath    string
	FileHash    string
	FileType    string
	DBName      string
	Country     string
	Law         string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chunk represents a text chunk with embedding
type Chunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  *pgvector.Vector
	CreatedAt  time.Time
}

// RetrievedChunk is a chunk joined with its document provenance, as
// returned by similarity search
type RetrievedChunk struct {
	Chunk
	FilePath string
	DBName   string
	Country  string
	Law      string
}
