package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dailytoon/dailytoon/internal/config"
	"github.com/dailytoon/dailytoon/internal/core"
	"github.com/dailytoon/dailytoon/internal/core/imagesynth"
	"github.com/dailytoon/dailytoon/internal/core/storyboard"
	"github.com/dailytoon/dailytoon/internal/imagegen"
	"github.com/dailytoon/dailytoon/internal/llm"
	"github.com/dailytoon/dailytoon/internal/store"
)

const (
	apiVersion      = "1.0.1"
	episodeListSize = 100
)

type Server struct {
	Studio *core.Studio
	store  store.EpisodeStore
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Starting from defaults", cfgPath, err)
		cfg = &config.Config{}
	}

	applyEnvOverrides(cfg)

	episodeStore, err := store.NewStore(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to connect to episode store: %v", err)
	}

	textClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize text client: %v", err)
	}

	imageClient, err := imagegen.NewClient(cfg.Image)
	if err != nil {
		log.Fatalf("Failed to initialize image client: %v", err)
	}

	return &Server{
		Studio: core.NewStudio(episodeStore, textClient, imageClient, cfg),
		store:  episodeStore,
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("IMAGE_PROVIDER"); v != "" {
		cfg.Image.Provider = v
	}
	if v := os.Getenv("IMAGE_API_KEY"); v != "" {
		cfg.Image.APIKey = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Store.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Store.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
}

// Close releases the store driver; collaborator lifecycle is owned here,
// not by the pipeline.
func (s *Server) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
	}))

	api := r.Group("/api")
	api.GET("/", s.Root)
	api.GET("/health", s.Health)
	api.POST("/story/submit", s.SubmitStory)
	api.POST("/panels/generate", s.GeneratePanelImage)
	api.GET("/episodes", s.ListEpisodes)
	api.GET("/episodes/:episode_id", s.GetEpisode)
	api.DELETE("/episodes/:episode_id", s.DeleteEpisode)

	return r
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "DailyToon API", "status": "running", "version": apiVersion})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type StorySubmitRequest struct {
	StoryText           string `json:"story_text"`
	CharacterName       string `json:"character_name"`
	CharacterAppearance string `json:"character_appearance"`
}

func (s *Server) SubmitStory(c *gin.Context) {
	var req StorySubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.StoryText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "story_text is required"})
		return
	}

	episode, err := s.Studio.SubmitStory(c.Request.Context(), req.StoryText, req.CharacterName, req.CharacterAppearance)
	if err != nil {
		s.fail(c, "Failed to create storyboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"episode_id":        episode.EpisodeID,
		"title":             episode.Title,
		"character_profile": episode.CharacterProfile,
		"panels":            episode.Panels,
	})
}

type PanelGenerateRequest struct {
	EpisodeID string `json:"episode_id"`
	PanelID   string `json:"panel_id"`
}

func (s *Server) GeneratePanelImage(c *gin.Context) {
	var req PanelGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	image, status, err := s.Studio.EnsurePanelImage(c.Request.Context(), req.EpisodeID, req.PanelID)
	if err != nil {
		s.fail(c, "Failed to generate panel image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_base64": image, "status": string(status)})
}

func (s *Server) ListEpisodes(c *gin.Context) {
	episodes, err := s.Studio.ListEpisodes(c.Request.Context(), episodeListSize)
	if err != nil {
		s.fail(c, "Failed to fetch episodes", err)
		return
	}
	c.JSON(http.StatusOK, episodes)
}

func (s *Server) GetEpisode(c *gin.Context) {
	episode, err := s.Studio.GetEpisode(c.Request.Context(), c.Param("episode_id"))
	if err != nil {
		s.fail(c, "Failed to fetch episode", err)
		return
	}
	c.JSON(http.StatusOK, episode)
}

func (s *Server) DeleteEpisode(c *gin.Context) {
	episodeID := c.Param("episode_id")
	if err := s.Studio.DeleteEpisode(c.Request.Context(), episodeID); err != nil {
		s.fail(c, "Failed to delete episode", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Episode deleted", "episode_id": episodeID})
}

// fail maps pipeline failures to distinct statuses. Diagnostic detail goes
// to the log, not to the response body.
func (s *Server) fail(c *gin.Context, message string, err error) {
	log.Printf("%s: %v", message, err)

	status := http.StatusInternalServerError
	var synthErr *imagesynth.SynthesisError
	var decompErr *storyboard.DecompositionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &synthErr), errors.As(err, &decompErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": message})
}
