package core

import (
	"context"

	"github.com/dailytoon/dailytoon/internal/imagegen"
)

type MockTextClient struct {
	Response string
	Err      error
	Calls    int
}

func (m *MockTextClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockImageClient counts renders so tests can prove the cache gate never
// re-renders an already-imaged panel.
type MockImageClient struct {
	Image []byte
	Err   error
	Calls int
}

func (m *MockImageClient) Render(ctx context.Context, req imagegen.RenderRequest) ([]byte, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Image, nil
}
