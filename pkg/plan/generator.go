// Package plan turns free-text intentions into goal batches by delegating
// text generation to an external model. Every operation either returns a
// complete batch or an error; nothing is written to a store here.
package plan

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

var (
	// ErrMissingCredential means no API key is configured. It is returned
	// before any network call is attempted.
	ErrMissingCredential = errors.New("API key not found")

	// ErrGeneration means the generator answered but the payload was empty
	// or did not match the requested shape.
	ErrGeneration = errors.New("generation failed")
)

// Request is one call to the text generator. A nil Schema asks for free text.
type Request struct {
	Prompt string
	Schema *genai.Schema
}

// Generator produces text, or JSON matching Request.Schema, for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
