package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrPrecondition         = errors.New("precondition violated")
	ErrProductHasParts      = errors.New("product has associated parts")
	ErrDuplicateAssociation = errors.New("part already associated with product")
	ErrDuplicateRequest     = errors.New("duplicate request")
)

// ProductHasPartsMessage is shown when a product delete is refused.
const ProductHasPartsMessage = "You must first remove associated parts from product before deleting it."

// ValidationError is the aggregated, user-facing result of a blocked save.
// It is always recoverable: the caller re-prompts.
type ValidationError struct {
	Summary  string
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return e.Summary
	}
	return e.Summary + " " + strings.Join(e.Problems, " ")
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
