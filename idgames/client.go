// Package idgames is a client for the Doomworld /idgames archive API.
package idgames

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"doomdeck/config"
)

// Client handles communication with the idgames archive API and its
// download mirror.
type Client struct {
	BaseURL    string
	MirrorURL  string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new idgames API client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}
	if cfg.IdgamesAPIURL == "" || cfg.IdgamesMirrorURL == "" {
		return nil, fmt.Errorf("idgames API and mirror URLs are required")
	}

	return &Client{
		BaseURL:   cfg.IdgamesAPIURL,
		MirrorURL: cfg.IdgamesMirrorURL,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		},
	}, nil
}

func (c *Client) makeRequest(method, fullURL string, queryParams url.Values, target interface{}, isBinary bool) (*http.Response, error) {
	req, err := http.NewRequest(method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if queryParams != nil {
		req.URL.RawQuery = queryParams.Encode()
	}

	req.Header.Set("User-Agent", c.UserAgent)
	if !isBinary {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "application/octet-stream")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close() // Close body even on error
		return resp, fmt.Errorf("api request failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// Don't try to decode JSON or close body for binary responses here
	if target != nil && !isBinary {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp, fmt.Errorf("failed to decode json response: %w", err)
		}
	}

	return resp, nil // For binary, return the response so the caller can handle the body
}

// Search queries the archive index. field selects what to match against
// ("filename", "title", "author"), sort orders the results ("date",
// "filename", "size", "rating").
func (c *Client) Search(query, field, sort string) ([]Candidate, error) {
	params := url.Values{}
	params.Add("action", "search")
	params.Add("query", query)
	params.Add("type", field)
	params.Add("sort", sort)
	params.Add("out", "json")

	var result searchResponse
	if _, err := c.makeRequest("GET", c.BaseURL, params, &result, false); err != nil {
		return nil, fmt.Errorf("failed to search archive for '%s': %w", query, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("archive api error: %s", result.Error.Message)
	}

	return result.Content.File, nil
}

// DownloadURL resolves the mirror download address for a candidate.
func (c *Client) DownloadURL(candidate Candidate) string {
	return strings.TrimSuffix(c.MirrorURL, "/") + "/" + strings.Trim(candidate.Dir, "/") + "/" + candidate.Filename
}

// CheckReachable issues a HEAD request and reports whether the URL answers
// with 200.
func (c *Client) CheckReachable(fullURL string) error {
	req, err := http.NewRequest(http.MethodHead, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s is unreachable: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s answered status %d", fullURL, resp.StatusCode)
	}
	return nil
}

// DownloadFile downloads an archive from the given URL and streams it to
// the destination path.
func (c *Client) DownloadFile(log *zap.SugaredLogger, destinationPath, downloadURL string) error {
	dir := filepath.Dir(destinationPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warnw("Target directory for download does not exist, attempting to create", zap.String("directory", dir))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create target directory '%s': %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check target directory '%s': %w", dir, err)
	}

	resp, err := c.makeRequest("GET", downloadURL, nil, nil, true)
	if err != nil {
		return fmt.Errorf("failed to start download for '%s' from %s: %w", filepath.Base(destinationPath), downloadURL, err)
	}
	defer resp.Body.Close()

	outFile, err := os.Create(destinationPath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", destinationPath, err)
	}
	defer outFile.Close()

	if _, err = io.Copy(outFile, resp.Body); err != nil {
		// Attempt to remove partially downloaded file on error
		os.Remove(destinationPath)
		return fmt.Errorf("failed to write downloaded content to '%s': %w", destinationPath, err)
	}

	return nil
}

// --- Structs for API Responses ---

// Candidate is one downloadable archive entry in the index.
type Candidate struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
	Dir      string `json:"dir"`
}

type searchResponse struct {
	Content struct {
		File candidateList `json:"file"`
	} `json:"content"`
	Error *apiMessage `json:"error"`
}

type apiMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// candidateList absorbs the API's quirk of returning a bare object for a
// single result and an array for several.
type candidateList []Candidate

func (l *candidateList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, (*[]Candidate)(l))
	}
	var single Candidate
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = candidateList{single}
	return nil
}
