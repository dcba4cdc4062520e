//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailytoon/dailytoon/internal/config"
	"github.com/dailytoon/dailytoon/internal/core"
	"github.com/dailytoon/dailytoon/internal/imagegen"
	"github.com/dailytoon/dailytoon/internal/llm"
	"github.com/dailytoon/dailytoon/internal/store"
)

// TestFullFlow runs the whole pipeline against a live Neo4j instance and the
// configured generative providers. It needs NEO4J_URI; provider settings
// come from the same env vars the server reads.
func TestFullFlow(t *testing.T) {
	// Load environment if present
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}

	episodeStore, err := store.NewNeo4jStore(uri, os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"))
	require.NoError(t, err)
	defer episodeStore.Close(context.Background())

	cfg := &config.Config{}
	cfg.LLM.Provider = os.Getenv("LLM_PROVIDER")
	cfg.LLM.Model = os.Getenv("LLM_MODEL")
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	cfg.LLM.BaseURL = os.Getenv("LLM_BASE_URL")
	cfg.Image.Provider = os.Getenv("IMAGE_PROVIDER")
	cfg.Image.APIKey = os.Getenv("IMAGE_API_KEY")

	textClient, err := llm.NewClient(context.Background(), cfg.LLM)
	require.NoError(t, err)
	imageClient, err := imagegen.NewClient(cfg.Image)
	require.NoError(t, err)

	studio := core.NewStudio(episodeStore, textClient, imageClient, cfg)
	ctx := context.Background()

	// 1. Submit a story
	episode, err := studio.SubmitStory(ctx,
		"Today I overslept, ran for the bus in the rain, missed it, and still arrived early because the trains were fast.",
		"Alex", "tall with curly brown hair, glasses, casual hoodie style")
	require.NoError(t, err)
	defer studio.DeleteEpisode(ctx, episode.EpisodeID)

	assert.NotEmpty(t, episode.Title)
	require.NotEmpty(t, episode.Panels)
	t.Logf("Episode %s: %q with %d panels", episode.EpisodeID, episode.Title, len(episode.Panels))

	// 2. Round-trip through the store
	stored, err := studio.GetEpisode(ctx, episode.EpisodeID)
	require.NoError(t, err)
	require.Len(t, stored.Panels, len(episode.Panels))
	for i, p := range stored.Panels {
		assert.Equal(t, i, p.Order)
		assert.Nil(t, p.Image)
	}

	// 3. First render is a miss, second a hit with identical bytes
	panelID := stored.Panels[0].PanelID
	first, status, err := studio.EnsurePanelImage(ctx, episode.EpisodeID, panelID)
	require.NoError(t, err)
	assert.Equal(t, core.CacheMiss, status)
	assert.NotEmpty(t, first)

	second, status, err := studio.EnsurePanelImage(ctx, episode.EpisodeID, panelID)
	require.NoError(t, err)
	assert.Equal(t, core.CacheHit, status)
	assert.Equal(t, first, second)

	// 4. Unknown ids fail before synthesis
	_, _, err = studio.EnsurePanelImage(ctx, "no-such-episode", panelID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
