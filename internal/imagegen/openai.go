package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient renders through the DALL-E image API. The upstream only
// supports fixed sizes and draws its own seeds, so Width/Height/Seed from
// the request are not forwarded.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey string, model string, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *OpenAIClient) Render(ctx context.Context, r RenderRequest) ([]byte, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         r.Prompt,
		Model:          c.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &HTTPError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	return base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
}
