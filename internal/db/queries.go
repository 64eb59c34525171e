package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// GetDocumentByHash retrieves a document by its file hash
func (db *DB) GetDocumentByHash(ctx context.Context, hash string) (*Document, error) {
	var doc Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, file_path, file_hash, file_type, db_name, country, law, processed_at, created_at, updated_at
		 FROM documents WHERE file_hash = $1`,
		hash,
	).Scan(
		&doc.ID, &doc.FilePath, &doc.FileHash, &doc.FileType,
		&doc.DBName, &doc.Country, &doc.Law,
		&doc.ProcessedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document by hash: %w", err)
	}
	return &doc, nil
}

// GetDocumentByPath retrieves a document by its file path
func (db *DB) GetDocumentByPath(ctx context.Context, filePath string) (*Document, error) {
	var doc Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, file_path, file_hash, file_type, db_name, country, law, processed_at, created_at, updated_at
		 FROM documents WHERE file_path = $1 LIMIT 1`,
		filePath,
	).Scan(
		&doc.ID, &doc.FilePath, &doc.FileHash, &doc.FileType,
		&doc.DBName, &doc.Country, &doc.Law,
		&doc.ProcessedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document by path: %w", err)
	}
	return &doc, nil
}

// CreateDocument creates a new document record with its provenance
func (db *DB) CreateDocument(ctx context.Context, doc *Document) (*Document, error) {
	var created Document
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (file_path, file_hash, file_type, db_name, country, law)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, file_path, file_hash, file_type, db_name, country, law, processed_at, created_at, updated_at`,
		doc.FilePath, doc.FileHash, doc.FileType, doc.DBName, doc.Country, doc.Law,
	).Scan(
		&created.ID, &created.FilePath, &created.FileHash, &created.FileType,
		&created.DBName, &created.Country, &created.Law,
		&created.ProcessedAt, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &created, nil
}

// UpdateDocumentProcessed updates the processed_at timestamp
func (db *DB) UpdateDocumentProcessed(ctx context.Context, docID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE documents SET processed_at = NOW(), updated_at = NOW() WHERE id = $1`,
		docID,
	)
	return err
}

// InsertChunksBatch inserts multiple chunks in a batch
func (db *DB) InsertChunksBatch(ctx context.Context, chunks []*Chunk) error {
	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(
			`INSERT INTO chunks (id, document_id, chunk_index, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			chunk.ID, chunk.DocumentID, chunk.ChunkIndex, chunk.Content, chunk.Embedding,
		)
	}
	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(chunks); i++ {
		_, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// SearchSimilarChunks finds similar chunks using vector similarity,
// joined with document provenance for source attribution
func (db *DB) SearchSimilarChunks(ctx context.Context, embedding *pgvector.Vector, limit int) ([]*RetrievedChunk, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.document_id, c.chunk_index, c.content, c.embedding, c.created_at,
		        d.file_path, d.db_name, d.country, d.law
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 WHERE c.embedding IS NOT NULL
		 ORDER BY c.embedding <=> $1
		 LIMIT $2`,
		embedding, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*RetrievedChunk
	for rows.Next() {
		var chunk RetrievedChunk
		if err := rows.Scan(
			&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex,
			&chunk.Content, &chunk.Embedding, &chunk.CreatedAt,
			&chunk.FilePath, &chunk.DBName, &chunk.Country, &chunk.Law,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// GetAllDocuments retrieves all documents
func (db *DB) GetAllDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, file_path, file_hash, file_type, db_name, country, law, processed_at, created_at, updated_at
		 FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID, &doc.FilePath, &doc.FileHash, &doc.FileType,
			&doc.DBName, &doc.Country, &doc.Law,
			&doc.ProcessedAt, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CountChunks returns the number of stored chunks
func (db *DB) CountChunks(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// DeleteDocument deletes a document and its associated chunks
func (db *DB) DeleteDocument(ctx context.Context, docID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID)
	return err
}
