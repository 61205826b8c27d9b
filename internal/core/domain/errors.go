package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusy indicates a chat request is already streaming.
	ErrBusy = errors.New("a response is still streaming")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chat is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCredentialMissing indicates the selected provider needs an API
	// key and none was found.
	ErrCredentialMissing = errors.New("API key not found")

	// ErrUnsupportedProvider indicates an unknown LLM provider.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrNoCitations indicates the latest answer has no resolvable citations.
	ErrNoCitations = errors.New("no citations")

	// ErrEmptyCorpus indicates no documents were found below the corpus root.
	ErrEmptyCorpus = errors.New("no documents found")
)
