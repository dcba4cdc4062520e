package store

import (
	"context"
	"errors"

	"github.com/dailytoon/dailytoon/internal/core/model"
)

// ErrNotFound reports that a referenced episode or panel does not exist.
var ErrNotFound = errors.New("not found")

// EpisodeStore is the persistence contract the pipeline needs: whole-episode
// insert, keyed lookup, bounded newest-first listing, delete by id, and a
// conditional panel-image write.
type EpisodeStore interface {
	InsertEpisode(ctx context.Context, episode model.Episode) error

	// GetEpisode returns ErrNotFound when no episode has the given id.
	GetEpisode(ctx context.Context, episodeID string) (model.Episode, error)

	ListEpisodes(ctx context.Context, limit int) ([]model.Episode, error)

	// DeleteEpisode returns ErrNotFound when nothing matched.
	DeleteEpisode(ctx context.Context, episodeID string) error

	// AttachPanelImage writes the image only while the panel still has none.
	// It returns ErrNotFound when the episode or panel does not exist, and
	// reports won=false when a concurrent writer got there first. Losing the
	// race is not an error; the stored image stays whatever won.
	AttachPanelImage(ctx context.Context, episodeID, panelID string, image []byte) (won bool, err error)

	Close(ctx context.Context) error
}
