package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPollinationsTextURL = "https://text.pollinations.ai"

// PollinationsClient talks to the free Pollinations text API: the prompt is
// URL-encoded into the path of a GET request and the body comes back as
// plain text. No API key is required.
type PollinationsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPollinationsClient(baseURL string, timeout time.Duration) *PollinationsClient {
	if baseURL == "" {
		baseURL = defaultPollinationsTextURL
	}
	return &PollinationsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PollinationsClient) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pollinations text api returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return string(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
