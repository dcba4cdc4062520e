package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultPollinationsImageURL = "https://image.pollinations.ai"

// PollinationsClient renders through the free Pollinations image API: a GET
// on /prompt/{url-encoded prompt} with width/height/seed query parameters,
// returning the image bytes directly.
type PollinationsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPollinationsClient(baseURL string, timeout time.Duration) *PollinationsClient {
	if baseURL == "" {
		baseURL = defaultPollinationsImageURL
	}
	return &PollinationsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PollinationsClient) Render(ctx context.Context, r RenderRequest) ([]byte, error) {
	query := url.Values{}
	query.Set("width", strconv.Itoa(r.Width))
	query.Set("height", strconv.Itoa(r.Height))
	query.Set("seed", strconv.FormatInt(r.Seed, 10))
	query.Set("nologo", "true")

	endpoint := c.baseURL + "/prompt/" + url.PathEscape(r.Prompt) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > 200 {
			body = body[:200]
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("image api returned an empty payload")
	}

	return body, nil
}
