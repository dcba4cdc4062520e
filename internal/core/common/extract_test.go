package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A int `json:"a"`
}

func TestExtractJSONBare(t *testing.T) {
	result, err := ExtractJSON[payload](`{"a":1}`)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.A)
}

func TestExtractJSONFencedWithTag(t *testing.T) {
	raw := "Here you go:\n```json\n{\"a\":1}\n```"

	result, err := ExtractJSON[payload](raw)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.A)
}

func TestExtractJSONFencedWithoutTag(t *testing.T) {
	raw := "Sure!\n```\n{\"a\":2}\n```\nLet me know if you need anything else."

	result, err := ExtractJSON[payload](raw)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.A)
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	result, err := ExtractJSON[payload](`prefix {"a":1} suffix`)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.A)
}

func TestExtractJSONNestedBraces(t *testing.T) {
	type nested struct {
		Panels []map[string]string `json:"panels"`
	}

	raw := `The storyboard: {"panels":[{"scene_description":"a"},{"scene_description":"b"}]} hope that helps`
	result, err := ExtractJSON[nested](raw)

	assert.NoError(t, err)
	assert.Len(t, result.Panels, 2)
}

func TestExtractJSONFailure(t *testing.T) {
	_, err := ExtractJSON[payload]("no json here")

	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "no json here", extractionErr.Raw)
}

func TestExtractJSONFenceTakesPrecedence(t *testing.T) {
	raw := "I considered {\"a\":9} before settling on:\n```json\n{\"a\":3}\n```"

	result, err := ExtractJSON[payload](raw)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.A)
}
