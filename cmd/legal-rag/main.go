package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/legal-rag/cli/config"
	"github.com/legal-rag/cli/internal/db"
	"github.com/legal-rag/cli/internal/documents"
	"github.com/legal-rag/cli/internal/embeddings"
	"github.com/legal-rag/cli/internal/logging"
	"github.com/legal-rag/cli/internal/tui"
)

func main() {
	var (
		ingestFlag  = flag.Bool("ingest", false, "Ingest the legal corpus into the vector store")
		migrateFlag = flag.Bool("migrate", false, "Print database migration instructions")
		verboseFlag = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logging.SetVerbose(*verboseFlag)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *migrateFlag {
		printMigrationHint()
		return
	}

	if *ingestFlag {
		if err := runIngest(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error ingesting corpus: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Ingest completed successfully")
		return
	}

	if len(cfg.Paths.VectorStoreDirs) == 0 {
		fmt.Fprintf(os.Stderr, "No vector stores found under %s.\nRun 'legal-rag -ingest' after placing the corpus there.\n", cfg.Paths.DataBaseDir)
		os.Exit(1)
	}

	// Create and run TUI
	app, err := tui.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runIngest processes every corpus directory into the vector store
func runIngest(cfg *config.Config) error {
	database, err := db.New(cfg.Database.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	textEmb := embeddings.NewTextEmbedder(cfg.Ollama.BaseURL, cfg.Models.EmbeddingModelName)
	processor := documents.NewProcessor(
		database,
		textEmb,
		cfg.Processing.ChunkSize,
		cfg.Processing.ChunkOverlap,
	)

	return processor.ProcessCorpus(context.Background(), cfg.Paths.VectorStoreDirs)
}

// printMigrationHint prints how to apply the schema
func printMigrationHint() {
	fmt.Println("Run migrations manually:")
	fmt.Println("  psql postgres -f migrations/00001_init_schema.up.sql")
	fmt.Println("And make sure the pgvector extension is installed:")
	fmt.Println("  CREATE EXTENSION IF NOT EXISTS vector;")
}
