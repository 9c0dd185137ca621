package download

// Package download implements the HTTP transfer pipeline: streamed chunked
// downloads with progress reporting, exponential retry and an optional
// fallback source for the runtime binary.
