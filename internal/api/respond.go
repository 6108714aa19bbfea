package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"verbatim/internal/archive"
	"verbatim/internal/registry"
	"verbatim/internal/transcripts"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// respondError translates a lower-layer error into a status code and a JSON
// error body. Sentinel checks run first so wrapped errors keep their meaning.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, transcripts.ErrEmptyInput),
		errors.Is(err, transcripts.ErrNoRecognizedFiles),
		errors.Is(err, archive.ErrInvalidArchive),
		errors.Is(err, archive.ErrEmptyArchive):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrTenantNotFound),
		errors.Is(err, transcripts.ErrNoMatches),
		errors.Is(err, transcripts.ErrSeasonNotFound),
		errors.Is(err, transcripts.ErrEpisodeNotFound):
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, errorBody{Error: err.Error()})
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: message})
}
