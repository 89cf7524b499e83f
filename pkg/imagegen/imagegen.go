// Package imagegen turns diffusion prompts into image URLs through an
// HTTP text-to-image backend, plus helpers for preview thumbnails.
package imagegen

import "context"

// Request is one text-to-image job.
type Request struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps,omitempty"`
}

// Result points at the generated image.
type Result struct {
	URL string `json:"url"`
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// GenerationError reports a backend failure. The orchestrator recovers by
// replying without an image; this never reaches the end user as an error.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return "imagegen: backend " + e.Backend + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }
