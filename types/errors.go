package types

import "errors"

var (
	// ErrUnreadableDocument indicates the uploaded file could not be parsed
	// as a PDF (corrupt, encrypted or not a PDF at all)
	ErrUnreadableDocument = errors.New("document cannot be read")
	// ErrNoDocument indicates a question was asked before any document was
	// ingested for the session
	ErrNoDocument = errors.New("no document uploaded for this session")
	// ErrEmptyQuestion indicates an empty question was submitted
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrEmbeddingFailed indicates the embedding provider returned an error
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrIndexBuildFailed indicates the vector index could not be rebuilt;
	// the namespace holds no chunks from the failed attempt
	ErrIndexBuildFailed = errors.New("index build failed")
	// ErrIndexWriteFailed indicates a vector store write error
	ErrIndexWriteFailed = errors.New("vector index write failed")
	// ErrGenerationFailed indicates the language model provider failed or
	// timed out
	ErrGenerationFailed = errors.New("answer generation failed")
	// ErrSessionExpired indicates the session record outlived its TTL;
	// callers treat this as a fresh empty session
	ErrSessionExpired = errors.New("session expired")
)
