package generation

import "context"

// Prompt is a single request to a text generation service.
type Prompt struct {
	// System carries the reviewer instructions and the expected output shape.
	System string
	// User carries the material to be reviewed.
	User string
}

// TextGenerator produces free text for a prompt.
//
// Implementations make exactly one request per call and never retry;
// callers decide how to treat failures. Failures are reported as errors
// that match ErrServiceFailure, usually as a *ServiceError.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt Prompt) (string, error)
}
