package edusolve

import "fmt"

// InsufficientDataError means training could not produce a valid model.
// Recoverable: the caller keeps whatever model it already had.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %s", e.Reason)
}

// DimensionMismatchError means a feature vector does not match the vocabulary
// the model was built against. This is always a bug, never coerced.
type DimensionMismatchError struct {
	VectorLen int
	VocabLen  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature vector length %d does not match vocabulary size %d", e.VectorLen, e.VocabLen)
}

// UnknownLabelError means a recorded sample carried a label outside the fixed
// subject/difficulty sets. The corpus is left untouched.
type UnknownLabelError struct {
	Kind  string
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %s label: %q", e.Kind, e.Label)
}
