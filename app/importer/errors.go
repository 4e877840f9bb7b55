package importer

import "errors"

var (
	// ErrPersistence wraps repository failures. How far it aborts the
	// run depends on the component that hits it.
	ErrPersistence = errors.New("persistence failure")
	// ErrMediaFetch wraps remote media failures. It never propagates
	// past the media extractor.
	ErrMediaFetch = errors.New("media fetch failure")
)
