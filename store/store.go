package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"bioskop-cli/model"
)

const (
	appDir           = "bioskop-cli"
	filmCacheTTL     = 5 * time.Minute
	MaxSearchHistory = 10
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type searchHistory struct {
	Queries []string `json:"queries"`
}

// SavedSession is the on-disk form of a signed-in session.
type SavedSession struct {
	Token string      `json:"token"`
	User  *model.User `json:"user,omitempty"`
}

// LoadFilmCache returns the cached raw body for a film list page of the API at
// baseURL and whether it is still fresh. admin selects the back-office listing.
func LoadFilmCache(baseURL string, admin bool, page int) (any, bool, error) {
	path, err := cachePath(filmCacheName(baseURL, admin, page))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[any](path)
	if err != nil {
		return nil, false, err
	}
	if cache.Data == nil {
		return nil, false, nil
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= filmCacheTTL, nil
}

func SaveFilmCache(baseURL string, admin bool, page int, body any) error {
	path, err := cachePath(filmCacheName(baseURL, admin, page))
	if err != nil {
		return err
	}
	return saveCache(path, body)
}

// ClearFilmCache drops every cached film page, used after admin writes.
func ClearFilmCache() error {
	dir, err := cachePath("")
	if err != nil {
		return err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "films_*.json"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CachedFilmPages serves public film pages from the cache while it is fresh
// and stores every page fetched. Pages are kept per API base URL. refresh
// skips the cache read.
func CachedFilmPages(baseURL string, fetch func(ctx context.Context, page int) (any, error), refresh bool, logger *slog.Logger) func(ctx context.Context, page int) (any, error) {
	return func(ctx context.Context, page int) (any, error) {
		if !refresh {
			body, fresh, err := LoadFilmCache(baseURL, false, page)
			if err != nil {
				logger.Debug("film cache unreadable", "page", page, "err", err)
			} else if fresh {
				logger.Debug("film cache hit", "page", page)
				return body, nil
			}
		}
		body, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		if err := SaveFilmCache(baseURL, false, page, body); err != nil {
			logger.Debug("film cache not saved", "page", page, "err", err)
		}
		return body, nil
	}
}

func filmCacheName(baseURL string, admin bool, page int) string {
	if page < 1 {
		page = 1
	}
	scope := "public"
	if admin {
		scope = "admin"
	}
	server := uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.TrimRight(strings.TrimSpace(baseURL), "/")))
	return fmt.Sprintf("films_%s_%s_%d.json", server.String()[:8], scope, page)
}

// LoadSearchHistory returns past search queries, most recent first.
func LoadSearchHistory() ([]string, error) {
	path, err := configPath("search_history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history searchHistory
	if err := json.Unmarshal(data, &history); err == nil {
		return history.Queries, nil
	}

	// Bare arrays are accepted for files written by hand or older builds.
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err == nil {
		var queries []string
		for _, q := range legacy {
			if q = strings.TrimSpace(q); q != "" {
				queries = append(queries, q)
			}
		}
		return queries, nil
	}

	return nil, errors.New("invalid search history format")
}

// RecordSearch moves query to the front of the history. Blank queries are
// ignored and the list is capped at MaxSearchHistory.
func RecordSearch(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	history, err := LoadSearchHistory()
	if err != nil {
		return fmt.Errorf("read search history: %w", err)
	}
	return saveSearchHistory(pushRecent(history, query))
}

func ClearSearchHistory() error {
	path, err := configPath("search_history.json")
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func pushRecent(history []string, query string) []string {
	next := []string{query}
	for _, existing := range history {
		if existing == query || existing == "" {
			continue
		}
		next = append(next, existing)
		if len(next) >= MaxSearchHistory {
			break
		}
	}
	return next
}

func saveSearchHistory(queries []string) error {
	path, err := configPath("search_history.json")
	if err != nil {
		return err
	}
	return writeJSON(path, searchHistory{Queries: queries}, 0o644)
}

// SessionFile persists the signed-in session under the user config dir.
type SessionFile struct {
	path string
}

// NewSessionFile uses path when given, else the default session location.
func NewSessionFile(path string) (*SessionFile, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = configPath("session.json")
		if err != nil {
			return nil, err
		}
	}
	return &SessionFile{path: path}, nil
}

func (f *SessionFile) Path() string {
	return f.path
}

// Load returns the saved session, or nil when none exists.
func (f *SessionFile) Load() (*SavedSession, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var saved SavedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	return &saved, nil
}

// Save writes the session readable by the current user only.
func (f *SessionFile) Save(saved SavedSession) error {
	return writeJSON(f.path, saved, 0o600)
}

func (f *SessionFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	return writeJSON(path, cache, 0o644)
}

func writeJSON(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	// Write next to the target and rename so readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

// CachePath resolves name inside the application's cache directory.
func CachePath(name string) (string, error) {
	return cachePath(name)
}
