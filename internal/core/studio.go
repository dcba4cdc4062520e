package core

import (
	"context"
	"fmt"
	"log"

	"github.com/dailytoon/dailytoon/internal/config"
	"github.com/dailytoon/dailytoon/internal/core/imagesynth"
	"github.com/dailytoon/dailytoon/internal/core/model"
	"github.com/dailytoon/dailytoon/internal/core/storyboard"
	"github.com/dailytoon/dailytoon/internal/imagegen"
	"github.com/dailytoon/dailytoon/internal/llm"
	"github.com/dailytoon/dailytoon/internal/store"
)

// CacheStatus tells a caller whether a panel image existed before its
// request ("cached") or was produced by it ("generated").
type CacheStatus string

const (
	CacheHit  CacheStatus = "cached"
	CacheMiss CacheStatus = "generated"
)

// Studio wires the decomposition and synthesis pipeline over the episode
// store. Collaborators are injected; their lifecycle belongs to the caller.
type Studio struct {
	Store       store.EpisodeStore
	Decomposer  *storyboard.Decomposer
	Synthesizer *imagesynth.Synthesizer
}

func NewStudio(episodeStore store.EpisodeStore, textClient llm.TextClient, imageClient imagegen.ImageClient, cfg *config.Config) *Studio {
	return &Studio{
		Store: episodeStore,
		Decomposer: storyboard.NewDecomposer(
			textClient,
			cfg.LLM.Timeout(),
			cfg.Storyboard.FallbackOnFailure,
		),
		Synthesizer: imagesynth.NewSynthesizer(
			imageClient,
			cfg.Image.Width,
			cfg.Image.Height,
			cfg.Retry.Attempts(),
			cfg.Retry.BaseDelay(),
		),
	}
}

// SubmitStory decomposes the story, assembles the episode and persists it.
// Panels come back without images; rendering happens per panel on demand.
func (s *Studio) SubmitStory(ctx context.Context, storyText, characterName, characterAppearance string) (model.Episode, error) {
	sb, err := s.Decomposer.Decompose(ctx, storyText, characterName, characterAppearance)
	if err != nil {
		return model.Episode{}, err
	}

	episode := AssembleEpisode(sb, storyText)

	if err := s.Store.InsertEpisode(ctx, episode); err != nil {
		return model.Episode{}, fmt.Errorf("failed to save episode: %w", err)
	}

	log.Printf("Created episode %s with %d panels", episode.EpisodeID, len(episode.Panels))
	return episode, nil
}

// EnsurePanelImage returns the panel's image, rendering and persisting it on
// first request. Repeated requests are idempotent cache hits; the image
// collaborator is never consulted for a panel that already has one. An
// unknown episode or panel fails before any synthesis is attempted.
func (s *Studio) EnsurePanelImage(ctx context.Context, episodeID, panelID string) ([]byte, CacheStatus, error) {
	episode, err := s.Store.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, "", err
	}

	var panel *model.Panel
	for i := range episode.Panels {
		if episode.Panels[i].PanelID == panelID {
			panel = &episode.Panels[i]
			break
		}
	}
	if panel == nil {
		return nil, "", fmt.Errorf("panel %s: %w", panelID, store.ErrNotFound)
	}

	if panel.Rendered() {
		return panel.Image, CacheHit, nil
	}

	image, err := s.Synthesizer.Synthesize(ctx, panel.SceneDescription, panel.Dialogue, episode.CharacterProfile, panel.Background)
	if err != nil {
		return nil, "", err
	}

	won, err := s.Store.AttachPanelImage(ctx, episodeID, panelID, image)
	if err != nil {
		return nil, "", err
	}
	if !won {
		// A concurrent request rendered the same panel first. Its bytes are
		// the persisted ones; ours are still a valid response for this call.
		log.Printf("Panel %s was rendered concurrently, keeping first write", panelID)
	}

	return image, CacheMiss, nil
}

func (s *Studio) GetEpisode(ctx context.Context, episodeID string) (model.Episode, error) {
	return s.Store.GetEpisode(ctx, episodeID)
}

func (s *Studio) ListEpisodes(ctx context.Context, limit int) ([]model.Episode, error) {
	return s.Store.ListEpisodes(ctx, limit)
}

func (s *Studio) DeleteEpisode(ctx context.Context, episodeID string) error {
	return s.Store.DeleteEpisode(ctx, episodeID)
}
