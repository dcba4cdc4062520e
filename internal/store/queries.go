package store

const (
	insertEpisodeQuery = `
		CREATE (e:Episode {
			episode_id: $episode_id,
			title: $title,
			user_story_text: $user_story_text,
			created_at: $created_at,
			character_profile: $character_profile
		})
		WITH e
		UNWIND $panels AS panel
		CREATE (p:Panel {
			panel_id: panel.panel_id,
			order: panel.order,
			scene_description: panel.scene_description,
			dialogue: panel.dialogue,
			character_description: panel.character_description,
			background: panel.background,
			image_base64: panel.image_base64
		})
		CREATE (e)-[:HAS_PANEL]->(p)
		RETURN e.episode_id AS episode_id
	`

	getEpisodeQuery = `
		MATCH (e:Episode {episode_id: $episode_id})
		OPTIONAL MATCH (e)-[:HAS_PANEL]->(p:Panel)
		WITH e, p ORDER BY p.order
		RETURN e, collect(p) AS panels
	`

	listEpisodesQuery = `
		MATCH (e:Episode)
		OPTIONAL MATCH (e)-[:HAS_PANEL]->(p:Panel)
		WITH e, p ORDER BY p.order
		WITH e, collect(p) AS panels
		ORDER BY e.created_at DESC
		LIMIT $limit
		RETURN e, panels
	`

	deleteEpisodeQuery = `
		MATCH (e:Episode {episode_id: $episode_id})
		OPTIONAL MATCH (e)-[:HAS_PANEL]->(p:Panel)
		DETACH DELETE e, p
		RETURN count(DISTINCT e) AS deleted
	`

	// The SET only fires while image_base64 is still null, so the first
	// writer wins and later writers observe won=false.
	attachPanelImageQuery = `
		MATCH (e:Episode {episode_id: $episode_id})-[:HAS_PANEL]->(p:Panel {panel_id: $panel_id})
		FOREACH (_ IN CASE WHEN p.image_base64 IS NULL THEN [1] ELSE [] END |
			SET p.image_base64 = $image_base64)
		RETURN p.image_base64 = $image_base64 AS won
	`

	episodeIndexQuery = "CREATE INDEX episode_id_index IF NOT EXISTS FOR (e:Episode) ON (e.episode_id)"
	panelIndexQuery   = "CREATE INDEX panel_id_index IF NOT EXISTS FOR (p:Panel) ON (p.panel_id)"
)
