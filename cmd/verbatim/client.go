package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"verbatim/internal/transcripts"
)

// apiError carries the server's error body alongside the HTTP status.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// client is a thin HTTP client for the transcript service.
type client struct {
	baseURL string
	userID  string
	http    *http.Client
}

func newClient(baseURL, userID string) *client {
	return &client{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// searchQuery holds the optional filters shared by search and random.
type searchQuery struct {
	phrase  string
	exact   bool
	season  int64
	episode int64
	speaker int64
}

func (q searchQuery) values() url.Values {
	values := url.Values{}
	if q.phrase != "" {
		values.Set("phrase", q.phrase)
	}
	if q.exact {
		values.Set("similar_search", "true")
	}
	if q.season > 0 {
		values.Set("season", strconv.FormatInt(q.season, 10))
	}
	if q.episode > 0 {
		values.Set("episode", strconv.FormatInt(q.episode, 10))
	}
	if q.speaker > 0 {
		values.Set("speaker", strconv.FormatInt(q.speaker, 10))
	}
	return values
}

func (c *client) upload(ctx context.Context, archivePath string) (string, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(archivePath))
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	var result struct {
		Message string `json:"message"`
	}
	err = c.do(ctx, http.MethodPost, "/api/upload", url.Values{}, &body, writer.FormDataContentType(), &result)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *client) cleanup(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{"user_id": c.userID})
	if err != nil {
		return "", fmt.Errorf("encode cleanup request: %w", err)
	}
	var result struct {
		Message string `json:"message"`
	}
	err = c.do(ctx, http.MethodPost, "/api/cleanup", nil, bytes.NewReader(payload), "application/json", &result)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *client) search(ctx context.Context, query searchQuery) ([]transcripts.Match, error) {
	var matches []transcripts.Match
	if err := c.do(ctx, http.MethodGet, "/api/search/phrases", query.values(), nil, "", &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (c *client) randomLine(ctx context.Context, query searchQuery) (*transcripts.Line, error) {
	query.phrase = ""
	var line transcripts.Line
	if err := c.do(ctx, http.MethodGet, "/api/random-line", query.values(), nil, "", &line); err != nil {
		return nil, err
	}
	return &line, nil
}

func (c *client) transcript(ctx context.Context, season, episode int64) ([]transcripts.Line, error) {
	path := fmt.Sprintf("/api/transcripts/%d/%d", season, episode)
	var lines []transcripts.Line
	if err := c.do(ctx, http.MethodGet, path, nil, nil, "", &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *client) seasons(ctx context.Context) ([]transcripts.Season, error) {
	var seasons []transcripts.Season
	if err := c.do(ctx, http.MethodGet, "/api/seasons", nil, nil, "", &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (c *client) speakers(ctx context.Context) ([]transcripts.Speaker, error) {
	var speakers []transcripts.Speaker
	if err := c.do(ctx, http.MethodGet, "/api/speakers", nil, nil, "", &speakers); err != nil {
		return nil, err
	}
	return speakers, nil
}

func (c *client) episodes(ctx context.Context, seasonID int64) ([]transcripts.Episode, error) {
	path := fmt.Sprintf("/api/seasons/%d/episodes", seasonID)
	var episodes []transcripts.Episode
	if err := c.do(ctx, http.MethodGet, path, nil, nil, "", &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

func (c *client) episode(ctx context.Context, id int64) (*transcripts.Episode, error) {
	path := fmt.Sprintf("/api/episodes/%d", id)
	var episode transcripts.Episode
	if err := c.do(ctx, http.MethodGet, path, nil, nil, "", &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("user_id", c.userID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		message := ""
		if json.Unmarshal(payload, &errBody) == nil {
			message = errBody.Error
		}
		if message == "" {
			message = string(bytes.TrimSpace(payload))
		}
		return &apiError{Status: resp.StatusCode, Message: message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
