package imagesynth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dailytoon/dailytoon/internal/imagegen"
	"github.com/dailytoon/dailytoon/internal/retry"
)

const (
	stylePreamble = "monochrome panel-style illustration with halftone shading"

	defaultWidth  = 1024
	defaultHeight = 1024
	seedRange     = 100000
)

// SynthesisError reports that the image collaborator exhausted its retries
// or returned a permanent client error. StatusCode holds the last observed
// upstream status, or zero when the failure was not an HTTP one.
type SynthesisError struct {
	StatusCode int
	Err        error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("image synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// Synthesizer renders one panel through the image client with bounded
// retries. Server-side and network failures back off exponentially
// (BaseDelay * 2^attempt); client-side failures abort immediately.
type Synthesizer struct {
	Client      imagegen.ImageClient
	Width       int
	Height      int
	MaxAttempts int
	BaseDelay   time.Duration
}

func NewSynthesizer(client imagegen.ImageClient, width, height, maxAttempts int, baseDelay time.Duration) *Synthesizer {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Synthesizer{
		Client:      client,
		Width:       width,
		Height:      height,
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, sceneDescription, dialogue, characterProfile, background string) ([]byte, error) {
	prompt := fmt.Sprintf("%s, %s, character %s, setting %s, mood %s, high quality, detailed line art",
		stylePreamble, sceneDescription, characterProfile, background, dialogue)

	var image []byte
	attempt := 0

	err := retry.Do(ctx, s.MaxAttempts, s.BaseDelay, transient, func(ctx context.Context) error {
		attempt++
		// Fresh seed per attempt so a poisoned upstream cache entry is not
		// replayed on retry.
		req := imagegen.RenderRequest{
			Prompt: prompt,
			Width:  s.Width,
			Height: s.Height,
			Seed:   int64(uuid.New().ID() % seedRange),
		}

		log.Printf("Rendering panel image (attempt %d/%d)", attempt, s.MaxAttempts)

		rendered, err := s.Client.Render(ctx, req)
		if err != nil {
			return err
		}
		image = rendered
		return nil
	})
	if err != nil {
		synthErr := &SynthesisError{Err: err}
		var httpErr *imagegen.HTTPError
		if errors.As(err, &httpErr) {
			synthErr.StatusCode = httpErr.StatusCode
		}
		return nil, synthErr
	}

	return image, nil
}

// transient classifies render failures: 5xx and anything non-HTTP (network
// errors, timeouts) retry; 4xx is the request's fault and will not heal.
func transient(err error) bool {
	var httpErr *imagegen.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
