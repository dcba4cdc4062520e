package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dailytoon/dailytoon/internal/core/model"
)

// MemoryStore is a mutex-guarded in-process store. It backs tests and
// database-less deployments; episodes do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	episodes map[string]model.Episode
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{episodes: make(map[string]model.Episode)}
}

func (s *MemoryStore) InsertEpisode(ctx context.Context, episode model.Episode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.episodes[episode.EpisodeID]; exists {
		return fmt.Errorf("episode %s already exists", episode.EpisodeID)
	}
	s.episodes[episode.EpisodeID] = copyEpisode(episode)
	return nil
}

func (s *MemoryStore) GetEpisode(ctx context.Context, episodeID string) (model.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episode, ok := s.episodes[episodeID]
	if !ok {
		return model.Episode{}, fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}
	return copyEpisode(episode), nil
}

func (s *MemoryStore) ListEpisodes(ctx context.Context, limit int) ([]model.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episodes := make([]model.Episode, 0, len(s.episodes))
	for _, ep := range s.episodes {
		episodes = append(episodes, copyEpisode(ep))
	}
	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].CreatedAt.After(episodes[j].CreatedAt)
	})
	if limit > 0 && len(episodes) > limit {
		episodes = episodes[:limit]
	}
	return episodes, nil
}

func (s *MemoryStore) DeleteEpisode(ctx context.Context, episodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.episodes[episodeID]; !ok {
		return fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}
	delete(s.episodes, episodeID)
	return nil
}

func (s *MemoryStore) AttachPanelImage(ctx context.Context, episodeID, panelID string, image []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	episode, ok := s.episodes[episodeID]
	if !ok {
		return false, fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}

	for i := range episode.Panels {
		if episode.Panels[i].PanelID != panelID {
			continue
		}
		if episode.Panels[i].Rendered() {
			return false, nil
		}
		episode.Panels[i].Image = append([]byte(nil), image...)
		s.episodes[episodeID] = episode
		return true, nil
	}

	return false, fmt.Errorf("episode %s panel %s: %w", episodeID, panelID, ErrNotFound)
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// copyEpisode deep-copies panels so callers never share slices with the map.
func copyEpisode(episode model.Episode) model.Episode {
	out := episode
	out.Panels = make([]model.Panel, len(episode.Panels))
	for i, p := range episode.Panels {
		out.Panels[i] = p
		if p.Image != nil {
			out.Panels[i].Image = append([]byte(nil), p.Image...)
		}
	}
	return out
}
