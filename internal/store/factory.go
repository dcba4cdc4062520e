package store

import (
	"fmt"
	"strings"

	"github.com/dailytoon/dailytoon/internal/config"
)

func NewStore(cfg config.StoreConfig) (EpisodeStore, error) {
	backend := strings.ToLower(cfg.Backend)

	switch backend {
	case "", "memory":
		return NewMemoryStore(), nil

	case "neo4j":
		uri := cfg.URI
		if uri == "" {
			uri = "bolt://localhost:7687"
		}
		return NewNeo4jStore(uri, cfg.User, cfg.Password)

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}
