package imagegen

import (
	"context"
	"fmt"
)

// RenderRequest is a single rendering instruction. Seed is attached so that
// repeated requests with identical text do not collide in an upstream
// response cache.
type RenderRequest struct {
	Prompt string
	Width  int
	Height int
	Seed   int64
}

// ImageClient is the image-generation collaborator. Render returns the raw
// image bytes or an error; upstream HTTP failures surface as *HTTPError so
// callers can tell transient server errors from permanent client errors.
type ImageClient interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// HTTPError carries the upstream status of a failed render call.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("image api returned %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the failure is worth retrying.
func (e *HTTPError) Transient() bool {
	return e.StatusCode >= 500
}
