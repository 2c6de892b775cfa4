package types

// DocumentChunk is a single retrieval unit extracted from a PDF.
type DocumentChunk struct {
	Content  string           // The actual text content
	Seq      int              // Position within the document's chunk sequence
	Page     int              // Page number where the chunk starts
	Metadata DocumentMetadata // Associated metadata for the chunk
}

// DocumentMetadata contains metadata information for document chunks
type DocumentMetadata struct {
	Title      string // Title of the PDF document
	Source     string // Source file path
	PageNum    int    // Page number where the chunk starts
	TotalPages int    // Total number of pages in the document
}

// ProcessedDocument is the result of ingesting one PDF: the ordered chunk
// sequence plus the content hash used to detect re-uploads.
type ProcessedDocument struct {
	Title       string
	Source      string
	ContentHash string
	TotalPages  int
	Chunks      []DocumentChunk
}

// ScoredChunk is a chunk returned by a similarity query.
type ScoredChunk struct {
	Chunk DocumentChunk
	Score float32
}

// DocumentServiceConfig contains configuration options for PDF processing
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}
