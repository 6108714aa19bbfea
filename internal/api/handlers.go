package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"verbatim/internal/archive"
	"verbatim/internal/logging"
	"verbatim/internal/registry"
	"verbatim/internal/textutil"
	"verbatim/internal/transcripts"
)

// defaultTenant serves requests that carry no user_id parameter.
const defaultTenant = "default"

// Handlers holds the dependencies every route needs.
type Handlers struct {
	registry       *registry.Registry
	stagingDir     string
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandlers wires route handlers to the tenant registry. Uploads are staged
// under stagingDir while they are verified and ingested.
func NewHandlers(reg *registry.Registry, stagingDir string, maxUploadBytes int64, logger *slog.Logger) *Handlers {
	return &Handlers{
		registry:       reg,
		stagingDir:     stagingDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logging.NewComponentLogger(logger, "api"),
	}
}

func tenantID(c *gin.Context) string {
	if id := strings.TrimSpace(c.Query("user_id")); id != "" {
		return id
	}
	return defaultTenant
}

// Healthcheck reports process liveness.
func (h *Handlers) Healthcheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Upload accepts a multipart zip of transcripts, rebuilds the tenant's
// dataset, and ingests every recognized file in one transaction.
func (h *Handlers) Upload(c *gin.Context) {
	tenant := tenantID(c)

	header, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "no file uploaded")
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody{
			Error: fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes),
		})
		return
	}

	stagedPath := filepath.Join(h.stagingDir, uuid.NewString()+"-"+textutil.SanitizeFileName(header.Filename))
	if err := c.SaveUploadedFile(header, stagedPath); err != nil {
		respondError(c, fmt.Errorf("stage upload: %w", err))
		return
	}
	defer func() {
		if err := os.Remove(stagedPath); err != nil {
			h.logger.Warn("remove staged upload", logging.String("path", stagedPath), logging.Error(err))
		}
	}()

	data, err := os.ReadFile(stagedPath)
	if err != nil {
		respondError(c, fmt.Errorf("read staged upload: %w", err))
		return
	}
	if err := archive.Verify(data); err != nil {
		respondError(c, err)
		return
	}
	files, err := archive.ExtractTranscripts(data)
	if err != nil {
		respondError(c, err)
		return
	}

	store, err := h.registry.Rebuild(tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := logging.WithTenant(c.Request.Context(), tenant)
	if err := store.Ingest(ctx, files); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageBody{Message: "upload and processing successful"})
}

// Cleanup evicts a tenant's dataset. The tenant id arrives in the JSON body.
func (h *Handlers) Cleanup(c *gin.Context) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.UserID) == "" {
		respondBadRequest(c, "missing user_id")
		return
	}
	if err := h.registry.Evict(strings.TrimSpace(body.UserID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageBody{Message: "database cleaned up successfully"})
}

// SearchPhrases answers filtered full-text search with per-hit context.
func (h *Handlers) SearchPhrases(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}
	matches, err := store.SearchLines(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// RandomLine picks one line uniformly at random among the filter's matches.
func (h *Handlers) RandomLine(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}
	line, err := store.RandomLine(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// Transcript returns every line of one episode addressed by season and
// episode number.
func (h *Handlers) Transcript(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	season, err := strconv.ParseInt(c.Param("season"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid season number")
		return
	}
	episode, err := strconv.ParseInt(c.Param("episode"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid episode number")
		return
	}
	lines, err := store.Transcript(c.Request.Context(), season, episode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// Seasons lists every season in the tenant's dataset.
func (h *Handlers) Seasons(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	seasons, err := store.Seasons(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seasons)
}

// Speakers lists every speaker in the tenant's dataset.
func (h *Handlers) Speakers(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	speakers, err := store.Speakers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, speakers)
}

// SeasonEpisodes lists a season's episodes by the season's row id.
func (h *Handlers) SeasonEpisodes(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	seasonID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid season id")
		return
	}
	episodes, err := store.EpisodesBySeason(c.Request.Context(), seasonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, episodes)
}

// Episode returns a single episode by its row id.
func (h *Handlers) Episode(c *gin.Context) {
	store, err := h.registry.Resolve(tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	episodeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid episode id")
		return
	}
	episode, err := store.EpisodeByID(c.Request.Context(), episodeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}

// filterFromQuery parses the shared optional search parameters. It writes a
// 400 response and returns ok=false when a numeric parameter is malformed.
func filterFromQuery(c *gin.Context) (transcripts.Filter, bool) {
	filter := transcripts.Filter{
		Phrase: strings.TrimSpace(c.Query("phrase")),
	}
	if raw := c.Query("similar_search"); raw != "" {
		exact, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid similar_search value")
			return transcripts.Filter{}, false
		}
		filter.ExactPhrase = exact
	}
	assign := []struct {
		param  string
		target **int64
	}{
		{"season", &filter.Season},
		{"episode", &filter.EpisodeID},
		{"speaker", &filter.SpeakerID},
	}
	for _, field := range assign {
		raw := c.Query(field.param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, "invalid "+field.param+" value")
			return transcripts.Filter{}, false
		}
		*field.target = &value
	}
	return filter, true
}
