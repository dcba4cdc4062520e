package storyboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dailytoon/dailytoon/internal/core/common"
	"github.com/dailytoon/dailytoon/internal/core/model"
	"github.com/dailytoon/dailytoon/internal/llm"
)

const (
	defaultCharacterName       = "the main character"
	defaultCharacterAppearance = "a young person with expressive eyes, dark hair, casual modern clothing"
	defaultTitle               = "My Daily Story"

	decomposePromptTemplate = `You are a manga story expert. Analyze the story and break it into 4-6 dramatic manga-style scenes. Return ONLY valid JSON.

Story: %s
Main Character: %s

Create 4-6 manga panels. For each panel provide:
1. scene_description (visual)
2. dialogue (speech/thought)
3. background (setting)

Format as JSON:
{
  "title": "Episode Title",
  "panels": [
    {
      "scene_description": "...",
      "dialogue": "...",
      "background": "..."
    }
  ]
}`
)

// DecompositionError reports that the text model call failed or its output
// did not validate as a storyboard.
type DecompositionError struct {
	Err error
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("storyboard decomposition failed: %v", e.Err)
}

func (e *DecompositionError) Unwrap() error {
	return e.Err
}

// Decomposer turns a daily story into a validated Storyboard via the text
// client. Exactly one failure policy applies per deployment: propagate a
// DecompositionError (default) or, with FallbackOnFailure set, substitute a
// single-panel degraded storyboard of the character waiting idly.
type Decomposer struct {
	LLM               llm.TextClient
	Timeout           time.Duration
	FallbackOnFailure bool
}

func NewDecomposer(textClient llm.TextClient, timeout time.Duration, fallbackOnFailure bool) *Decomposer {
	return &Decomposer{
		LLM:               textClient,
		Timeout:           timeout,
		FallbackOnFailure: fallbackOnFailure,
	}
}

type storyboardPayload struct {
	Title  string             `json:"title"`
	Panels []model.PanelDraft `json:"panels"`
}

func (d *Decomposer) Decompose(ctx context.Context, storyText, characterName, characterAppearance string) (model.Storyboard, error) {
	if characterName == "" {
		characterName = defaultCharacterName
	}
	if characterAppearance == "" {
		characterAppearance = defaultCharacterAppearance
	}
	characterProfile := characterName + ": " + characterAppearance

	if storyText == "" {
		return model.Storyboard{}, &DecompositionError{Err: fmt.Errorf("story text is empty")}
	}

	sb, err := d.decompose(ctx, storyText, characterProfile)
	if err != nil {
		if d.FallbackOnFailure {
			log.Printf("Decomposition failed, substituting degraded storyboard: %v", err)
			return degradedStoryboard(characterName, characterProfile), nil
		}
		return model.Storyboard{}, &DecompositionError{Err: err}
	}
	return sb, nil
}

func (d *Decomposer) decompose(ctx context.Context, storyText, characterProfile string) (model.Storyboard, error) {
	prompt := fmt.Sprintf(decomposePromptTemplate, storyText, characterProfile)

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	response, err := d.LLM.Generate(ctx, prompt)
	if err != nil {
		return model.Storyboard{}, fmt.Errorf("text generation failed: %w", err)
	}

	payload, err := common.ExtractJSON[storyboardPayload](response)
	if err != nil {
		return model.Storyboard{}, err
	}

	if len(payload.Panels) == 0 {
		return model.Storyboard{}, fmt.Errorf("response has no panels")
	}
	for i, p := range payload.Panels {
		// A panel missing any of these cannot be rendered; defaulting here
		// would silently fabricate content.
		if p.SceneDescription == "" || p.Dialogue == "" || p.Background == "" {
			return model.Storyboard{}, fmt.Errorf("panel %d is missing scene_description, dialogue or background", i)
		}
	}

	title := payload.Title
	if title == "" {
		title = defaultTitle
	}

	return model.Storyboard{
		Title:            title,
		CharacterProfile: characterProfile,
		Panels:           payload.Panels,
	}, nil
}

func degradedStoryboard(characterName, characterProfile string) model.Storyboard {
	return model.Storyboard{
		Title:            defaultTitle,
		CharacterProfile: characterProfile,
		Panels: []model.PanelDraft{
			{
				SceneDescription: characterName + " is standing there.",
				Dialogue:         "...",
				Background:       "A simple background",
			},
		},
	}
}
