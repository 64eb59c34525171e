package documents

import (
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ParsedDocument contains text extracted from a corpus document
type ParsedDocument struct {
	Text string
}

// Parser interface for document parsing
type Parser interface {
	Parse(filePath string) (*ParsedDocument, error)
}

// PDFParser parses PDF files
type PDFParser struct{}

// NewPDFParser creates a new PDF parser
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse extracts text from a PDF file
func (p *PDFParser) Parse(filePath string) (*ParsedDocument, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textParts []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err == nil && strings.TrimSpace(text) != "" {
			textParts = append(textParts, text)
		}
	}

	return &ParsedDocument{
		Text: strings.Join(textParts, "\n\n"),
	}, nil
}

// TextParser parses plain text and markdown files
type TextParser struct{}

// NewTextParser creates a new plain text parser
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse reads a text file as-is
func (p *TextParser) Parse(filePath string) (*ParsedDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	return &ParsedDocument{
		Text: string(data),
	}, nil
}
