// Package repository loads the project portfolio from its data source and
// caches it until an explicit refresh.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ErrSourceUnavailable wraps failures to read the underlying data source.
var ErrSourceUnavailable = errors.New("project source unavailable")

// maxSourceBytes bounds a remote projects document.
const maxSourceBytes = 8 << 20

// Project is one portfolio entry. JSON keys follow the site's data file.
type Project struct {
	ID          int      `json:"id"`
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Category    string   `json:"categoria"`
	Tags        []string `json:"tags"`
	Images      []string `json:"imagenes"`
}

// Source fetches the full project list.
type Source interface {
	FetchProjects(ctx context.Context) ([]Project, error)
}

// FileSource reads projects from a JSON file on disk.
type FileSource struct {
	Path string
}

// FetchProjects implements Source.
func (s FileSource) FetchProjects(ctx context.Context) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return decodeProjects(data)
}

// HTTPSource reads projects from a JSON document served at URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// FetchProjects implements Source.
func (s HTTPSource) FetchProjects(ctx context.Context) ([]Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return decodeProjects(data)
}

func decodeProjects(data []byte) ([]Project, error) {
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("%w: decode projects: %v", ErrSourceUnavailable, err)
	}
	for i := range projects {
		if projects[i].Tags == nil {
			projects[i].Tags = []string{}
		}
		if projects[i].Images == nil {
			projects[i].Images = []string{}
		}
	}
	return projects, nil
}
