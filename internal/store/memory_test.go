package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailytoon/dailytoon/internal/core/model"
)

func sampleEpisode(id string, createdAt time.Time) model.Episode {
	return model.Episode{
		EpisodeID:        id,
		Title:            "My Daily Story",
		UserStoryText:    "I had a day.",
		CreatedAt:        createdAt,
		CharacterProfile: "Alex: glasses",
		Panels: []model.Panel{
			{PanelID: id + "-p0", Order: 0, SceneDescription: "a", Dialogue: "b", CharacterDescription: "Alex: glasses", Background: "c"},
			{PanelID: id + "-p1", Order: 1, SceneDescription: "d", Dialogue: "e", CharacterDescription: "Alex: glasses", Background: "f"},
		},
	}
}

func TestMemoryStoreInsertAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ep := sampleEpisode("ep1", time.Now().UTC())

	require.NoError(t, s.InsertEpisode(ctx, ep))

	got, err := s.GetEpisode(ctx, "ep1")
	require.NoError(t, err)
	assert.Equal(t, ep.EpisodeID, got.EpisodeID)
	assert.Len(t, got.Panels, 2)
	assert.Nil(t, got.Panels[0].Image)
}

func TestMemoryStoreGetUnknownEpisode(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetEpisode(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("old", now.Add(-time.Hour))))
	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("new", now)))

	episodes, err := s.ListEpisodes(ctx, 100)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "new", episodes[0].EpisodeID)
	assert.Equal(t, "old", episodes[1].EpisodeID)
}

func TestMemoryStoreListHonorsLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.InsertEpisode(ctx, sampleEpisode(id, now)))
		now = now.Add(time.Minute)
	}

	episodes, err := s.ListEpisodes(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, episodes, 2)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("ep1", time.Now().UTC())))
	require.NoError(t, s.DeleteEpisode(ctx, "ep1"))

	_, err := s.GetEpisode(ctx, "ep1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteEpisode(ctx, "ep1"), ErrNotFound)
}

func TestMemoryStoreAttachPanelImage(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("ep1", time.Now().UTC())))

	won, err := s.AttachPanelImage(ctx, "ep1", "ep1-p0", []byte("first"))
	require.NoError(t, err)
	assert.True(t, won)

	// Second writer loses; the stored image stays the first one.
	won, err = s.AttachPanelImage(ctx, "ep1", "ep1-p0", []byte("second"))
	require.NoError(t, err)
	assert.False(t, won)

	got, err := s.GetEpisode(ctx, "ep1")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got.Panels[0].Image)
}

func TestMemoryStoreAttachPanelImageNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.AttachPanelImage(ctx, "missing", "p0", []byte("img"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("ep1", time.Now().UTC())))
	_, err = s.AttachPanelImage(ctx, "ep1", "missing-panel", []byte("img"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAttachPanelImageConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("ep1", time.Now().UTC())))

	const writers = 16
	wins := make(chan bool, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := s.AttachPanelImage(ctx, "ep1", "ep1-p1", []byte("img"))
			assert.NoError(t, err)
			wins <- won
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.InsertEpisode(ctx, sampleEpisode("ep1", time.Now().UTC())))

	got, err := s.GetEpisode(ctx, "ep1")
	require.NoError(t, err)
	got.Panels[0].SceneDescription = "mutated"

	fresh, err := s.GetEpisode(ctx, "ep1")
	require.NoError(t, err)
	assert.Equal(t, "a", fresh.Panels[0].SceneDescription)
}
