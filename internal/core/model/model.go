package model

import "time"

// Panel is one illustrated beat of an episode. Image is nil until the panel
// has been rendered; once written it is never replaced.
type Panel struct {
	PanelID              string `json:"panel_id"`
	Order                int    `json:"order"`
	SceneDescription     string `json:"scene_description"`
	Dialogue             string `json:"dialogue"`
	CharacterDescription string `json:"character_description"`
	Background           string `json:"background"`
	Image                []byte `json:"image_base64,omitempty"`
}

// Rendered reports whether the panel already carries an image.
func (p Panel) Rendered() bool {
	return len(p.Image) > 0
}

// Episode is one submitted story decomposed into ordered panels.
// Panels are owned by the episode and sorted by Order, contiguous from 0.
type Episode struct {
	EpisodeID        string    `json:"episode_id"`
	Title            string    `json:"title"`
	UserStoryText    string    `json:"user_story_text"`
	CreatedAt        time.Time `json:"created_date"`
	CharacterProfile string    `json:"character_profile"`
	Panels           []Panel   `json:"panels"`
}

// PanelDraft is one panel description as produced by the text model,
// before identity and ordering are assigned.
type PanelDraft struct {
	SceneDescription string `json:"scene_description"`
	Dialogue         string `json:"dialogue"`
	Background       string `json:"background"`
}

// Storyboard is the transient decomposition result. It is never persisted;
// it exists only between the text-model call and episode assembly.
type Storyboard struct {
	Title            string       `json:"title"`
	CharacterProfile string       `json:"character_profile"`
	Panels           []PanelDraft `json:"panels"`
}
