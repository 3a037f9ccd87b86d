package studio

import (
	"fmt"
)

// DesignRequest is read from the form once per submission.
type DesignRequest struct {
	Prompt      string
	JewelryType string
	Material    string
}

// ModelPrompt is the prompt sent to the 3D endpoint.
func (r DesignRequest) ModelPrompt() string {
	return fmt.Sprintf("%s (%s)", r.Prompt, r.Material)
}

// GeneratedImage is what the gallery shows for one design.
type GeneratedImage struct {
	EncodedData  string
	Format       string
	SourcePrompt string
	Material     string
}

// GenerationError is returned when an endpoint reports an error or cannot
// be reached.
type GenerationError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s failed", e.Endpoint)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ModelLoadError is returned when a model could not be fetched or parsed.
type ModelLoadError struct {
	URL string
	Err error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("Failed to load 3D model from %s: %v", e.URL, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}
