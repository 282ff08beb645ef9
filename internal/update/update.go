// Package update checks the hosted versions manifest for a newer release.
// It only reports availability; downloading and installing are out of scope.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"
)

// Info is the outcome of one release check.
type Info struct {
	Current   string
	Latest    string
	Available bool
}

// Check fetches the versions manifest and compares its "latest" field with
// the running version. A malformed version on either side means no update,
// matching how the desktop releases behave.
func Check(ctx context.Context, url, current string) (Info, error) {
	info := Info{Current: current, Latest: current}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return info, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return info, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, fmt.Errorf("read versions manifest: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return info, fmt.Errorf("versions manifest: status %d", resp.StatusCode)
	}

	var manifest struct {
		Latest string `json:"latest"`
	}
	if err := json.Unmarshal(body, &manifest); err != nil {
		return info, fmt.Errorf("parse versions manifest: %w", err)
	}
	if manifest.Latest == "" {
		return info, nil
	}

	return Compare(current, manifest.Latest), nil
}

// Compare decides whether latest is a newer release than current.
func Compare(current, latest string) Info {
	info := Info{Current: current, Latest: current}
	cur, lat := canonical(current), canonical(latest)
	if !semver.IsValid(cur) || !semver.IsValid(lat) {
		return info
	}
	if semver.Compare(lat, cur) > 0 {
		info.Latest = latest
		info.Available = true
	}
	return info
}

// canonical maps the manifest's bare "1.2.3" form onto semver's required
// "v" prefix.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Status is a set-once holder for the startup check's outcome, safe for
// concurrent reads from request handlers.
type Status struct {
	mu   sync.RWMutex
	info Info
}

func NewStatus(current string) *Status {
	return &Status{info: Info{Current: current, Latest: current}}
}

func (s *Status) Set(info Info) {
	s.mu.Lock()
	s.info = info
	s.mu.Unlock()
}

func (s *Status) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}
