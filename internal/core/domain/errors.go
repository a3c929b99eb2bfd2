package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrModelUnavailable marks failures of the embedding or generation
	// backend; the standard retrieval path propagates it to the caller.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrRewriteUnavailable marks failures of the rewrite LLM; the query
	// rewriter recovers from it locally and continues with rule-based
	// variants only.
	ErrRewriteUnavailable = errors.New("rewrite unavailable")
	ErrTemporary          = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
