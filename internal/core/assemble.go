package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/dailytoon/dailytoon/internal/core/model"
)

// AssembleEpisode turns a transient storyboard into a persistable episode.
// Pure transformation: fresh identifiers for the episode and every panel,
// Order as the zero-based draft index, and the character profile copied into
// each panel so its description stays stable even if the episode's profile
// were ever edited later.
func AssembleEpisode(sb model.Storyboard, storyText string) model.Episode {
	episode := model.Episode{
		EpisodeID:        uuid.New().String(),
		Title:            sb.Title,
		UserStoryText:    storyText,
		CreatedAt:        time.Now().UTC(),
		CharacterProfile: sb.CharacterProfile,
		Panels:           make([]model.Panel, 0, len(sb.Panels)),
	}

	for idx, draft := range sb.Panels {
		episode.Panels = append(episode.Panels, model.Panel{
			PanelID:              uuid.New().String(),
			Order:                idx,
			SceneDescription:     draft.SceneDescription,
			Dialogue:             draft.Dialogue,
			CharacterDescription: sb.CharacterProfile,
			Background:           draft.Background,
		})
	}

	return episode
}
