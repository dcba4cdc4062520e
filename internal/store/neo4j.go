package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dailytoon/dailytoon/internal/core/model"
)

// Neo4jStore keeps each episode as an Episode node owning its Panel nodes
// via HAS_PANEL. Panel images are stored as base64 string properties; an
// unrendered panel simply has no image_base64 property.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jStore(uri, username, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	s := &Neo4jStore{driver: driver}
	if err := s.ensureIndices(context.Background()); err != nil {
		log.Printf("Warning: failed to create indices: %v", err)
	}

	log.Println("Connected to episode store")
	return s, nil
}

func (s *Neo4jStore) ensureIndices(ctx context.Context) error {
	for _, q := range []string{episodeIndexQuery, panelIndexQuery} {
		if _, err := s.run(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return result, nil
}

func (s *Neo4jStore) InsertEpisode(ctx context.Context, episode model.Episode) error {
	panels := make([]map[string]interface{}, 0, len(episode.Panels))
	for _, p := range episode.Panels {
		var image interface{}
		if p.Rendered() {
			image = base64.StdEncoding.EncodeToString(p.Image)
		}
		panels = append(panels, map[string]interface{}{
			"panel_id":              p.PanelID,
			"order":                 p.Order,
			"scene_description":     p.SceneDescription,
			"dialogue":              p.Dialogue,
			"character_description": p.CharacterDescription,
			"background":            p.Background,
			"image_base64":          image,
		})
	}

	params := map[string]interface{}{
		"episode_id":        episode.EpisodeID,
		"title":             episode.Title,
		"user_story_text":   episode.UserStoryText,
		"created_at":        episode.CreatedAt,
		"character_profile": episode.CharacterProfile,
		"panels":            panels,
	}

	_, err := s.run(ctx, insertEpisodeQuery, params)
	return err
}

func (s *Neo4jStore) GetEpisode(ctx context.Context, episodeID string) (model.Episode, error) {
	result, err := s.run(ctx, getEpisodeQuery, map[string]interface{}{"episode_id": episodeID})
	if err != nil {
		return model.Episode{}, err
	}
	if len(result.Records) == 0 {
		return model.Episode{}, fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}
	return recordToEpisode(result.Records[0])
}

func (s *Neo4jStore) ListEpisodes(ctx context.Context, limit int) ([]model.Episode, error) {
	result, err := s.run(ctx, listEpisodesQuery, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}

	episodes := make([]model.Episode, 0, len(result.Records))
	for _, record := range result.Records {
		ep, err := recordToEpisode(record)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

func (s *Neo4jStore) DeleteEpisode(ctx context.Context, episodeID string) error {
	result, err := s.run(ctx, deleteEpisodeQuery, map[string]interface{}{"episode_id": episodeID})
	if err != nil {
		return err
	}

	if len(result.Records) > 0 {
		if deleted, ok := result.Records[0].Get("deleted"); ok {
			if count, ok := deleted.(int64); ok && count > 0 {
				return nil
			}
		}
	}
	return fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
}

func (s *Neo4jStore) AttachPanelImage(ctx context.Context, episodeID, panelID string, image []byte) (bool, error) {
	params := map[string]interface{}{
		"episode_id":   episodeID,
		"panel_id":     panelID,
		"image_base64": base64.StdEncoding.EncodeToString(image),
	}

	result, err := s.run(ctx, attachPanelImageQuery, params)
	if err != nil {
		return false, err
	}
	if len(result.Records) == 0 {
		return false, fmt.Errorf("episode %s panel %s: %w", episodeID, panelID, ErrNotFound)
	}

	won, _ := result.Records[0].Get("won")
	wonBool, ok := won.(bool)
	return ok && wonBool, nil
}

func recordToEpisode(record *neo4j.Record) (model.Episode, error) {
	rawNode, ok := record.Get("e")
	if !ok {
		return model.Episode{}, fmt.Errorf("record missing episode node")
	}
	node, ok := rawNode.(neo4j.Node)
	if !ok {
		return model.Episode{}, fmt.Errorf("unexpected episode value %T", rawNode)
	}

	episode := model.Episode{
		EpisodeID:        stringProp(node.Props, "episode_id"),
		Title:            stringProp(node.Props, "title"),
		UserStoryText:    stringProp(node.Props, "user_story_text"),
		CharacterProfile: stringProp(node.Props, "character_profile"),
	}
	if ts, ok := node.Props["created_at"].(time.Time); ok {
		episode.CreatedAt = ts
	}

	rawPanels, _ := record.Get("panels")
	panelNodes, _ := rawPanels.([]interface{})
	for _, rawPanel := range panelNodes {
		panelNode, ok := rawPanel.(neo4j.Node)
		if !ok {
			continue
		}
		panel := model.Panel{
			PanelID:              stringProp(panelNode.Props, "panel_id"),
			SceneDescription:     stringProp(panelNode.Props, "scene_description"),
			Dialogue:             stringProp(panelNode.Props, "dialogue"),
			CharacterDescription: stringProp(panelNode.Props, "character_description"),
			Background:           stringProp(panelNode.Props, "background"),
		}
		if order, ok := panelNode.Props["order"].(int64); ok {
			panel.Order = int(order)
		}
		if encoded := stringProp(panelNode.Props, "image_base64"); encoded != "" {
			image, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return model.Episode{}, fmt.Errorf("panel %s has a corrupt image payload: %w", panel.PanelID, err)
			}
			panel.Image = image
		}
		episode.Panels = append(episode.Panels, panel)
	}

	return episode, nil
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
