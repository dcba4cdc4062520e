package storyboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTextClient struct {
	Response   string
	Err        error
	LastPrompt string
	Calls      int
}

func (m *MockTextClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

const validResponse = `{
	"title": "The Rainy Commute",
	"panels": [
		{"scene_description": "Alex oversleeps, alarm blaring", "dialogue": "Oh no, not again!", "background": "A cluttered bedroom at dawn"},
		{"scene_description": "Alex sprints through heavy rain", "dialogue": "Why today of all days?!", "background": "A grey city street"},
		{"scene_description": "The bus pulls away from the stop", "dialogue": "Wait... WAIT!", "background": "A rain-soaked bus stop"},
		{"scene_description": "Alex arrives early anyway, dripping", "dialogue": "...huh. I made it?", "background": "A bright office lobby"}
	]
}`

func TestDecomposeValidResponse(t *testing.T) {
	mock := &MockTextClient{Response: validResponse}
	d := NewDecomposer(mock, 60*time.Second, false)

	sb, err := d.Decompose(context.Background(), "I overslept and ran for the bus.", "Alex", "curly hair and glasses")

	require.NoError(t, err)
	assert.Equal(t, "The Rainy Commute", sb.Title)
	assert.Equal(t, "Alex: curly hair and glasses", sb.CharacterProfile)
	require.Len(t, sb.Panels, 4)
	for _, p := range sb.Panels {
		assert.NotEmpty(t, p.SceneDescription)
		assert.NotEmpty(t, p.Dialogue)
		assert.NotEmpty(t, p.Background)
	}
}

func TestDecomposeFencedResponse(t *testing.T) {
	mock := &MockTextClient{Response: "Here is your storyboard:\n```json\n" + validResponse + "\n```"}
	d := NewDecomposer(mock, 60*time.Second, false)

	sb, err := d.Decompose(context.Background(), "I overslept.", "", "")

	require.NoError(t, err)
	assert.Len(t, sb.Panels, 4)
}

func TestDecomposeDefaultsCharacterProfile(t *testing.T) {
	mock := &MockTextClient{Response: validResponse}
	d := NewDecomposer(mock, 60*time.Second, false)

	sb, err := d.Decompose(context.Background(), "A quiet day.", "", "")

	require.NoError(t, err)
	assert.Equal(t, "the main character: a young person with expressive eyes, dark hair, casual modern clothing", sb.CharacterProfile)
	assert.Contains(t, mock.LastPrompt, sb.CharacterProfile)
	assert.Contains(t, mock.LastPrompt, "A quiet day.")
}

func TestDecomposeDefaultsMissingTitle(t *testing.T) {
	mock := &MockTextClient{Response: `{"panels": [{"scene_description": "a", "dialogue": "b", "background": "c"}]}`}
	d := NewDecomposer(mock, 60*time.Second, false)

	sb, err := d.Decompose(context.Background(), "story", "", "")

	require.NoError(t, err)
	assert.Equal(t, "My Daily Story", sb.Title)
}

func TestDecomposeMissingPanelFieldIsError(t *testing.T) {
	mock := &MockTextClient{Response: `{"title": "t", "panels": [{"scene_description": "a", "dialogue": "b"}]}`}
	d := NewDecomposer(mock, 60*time.Second, false)

	_, err := d.Decompose(context.Background(), "story", "", "")

	var decompErr *DecompositionError
	require.True(t, errors.As(err, &decompErr))
	assert.Contains(t, decompErr.Error(), "background")
}

func TestDecomposeNoPanelsIsError(t *testing.T) {
	mock := &MockTextClient{Response: `{"title": "t", "panels": []}`}
	d := NewDecomposer(mock, 60*time.Second, false)

	_, err := d.Decompose(context.Background(), "story", "", "")

	var decompErr *DecompositionError
	require.True(t, errors.As(err, &decompErr))
}

func TestDecomposeUpstreamErrorPropagates(t *testing.T) {
	upstream := fmt.Errorf("connection refused")
	mock := &MockTextClient{Err: upstream}
	d := NewDecomposer(mock, 60*time.Second, false)

	_, err := d.Decompose(context.Background(), "story", "", "")

	var decompErr *DecompositionError
	require.True(t, errors.As(err, &decompErr))
	assert.ErrorIs(t, err, upstream)
}

func TestDecomposeFallbackPolicy(t *testing.T) {
	mock := &MockTextClient{Err: fmt.Errorf("boom")}
	d := NewDecomposer(mock, 60*time.Second, true)

	sb, err := d.Decompose(context.Background(), "story", "Alex", "glasses")

	require.NoError(t, err)
	require.Len(t, sb.Panels, 1)
	assert.Equal(t, "Alex is standing there.", sb.Panels[0].SceneDescription)
	assert.Equal(t, "...", sb.Panels[0].Dialogue)
	assert.Equal(t, "Alex: glasses", sb.CharacterProfile)
}

func TestDecomposeEmptyStoryIsError(t *testing.T) {
	mock := &MockTextClient{Response: validResponse}
	d := NewDecomposer(mock, 60*time.Second, false)

	_, err := d.Decompose(context.Background(), "", "", "")

	require.Error(t, err)
	assert.Zero(t, mock.Calls)
}
