package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client fetches the content tree from a GitHub-style contents API.
// The hosted layout is: grade directories, each holding level directories,
// each holding one JSON file per subject whose body is the
// chapter→paragraph mapping.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(baseURL, token string, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// dirEntry is the subset of a contents-API listing entry we care about.
type dirEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "dir" or "file"
	DownloadURL string `json:"download_url"`
}

// FetchTree walks the remote directory structure into a Tree and applies
// the "_meta" filtering invariant. Subject files that fail to parse are
// skipped with a warning rather than aborting the whole fetch.
func (c *Client) FetchTree(ctx context.Context) (Tree, error) {
	tree := make(Tree)

	grades, err := c.listContents(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}

	for _, grade := range grades {
		if grade.Type != "dir" {
			continue
		}
		tree[grade.Name] = make(map[string]map[string]Subject)

		levels, err := c.listContents(ctx, grade.Name)
		if err != nil {
			return nil, fmt.Errorf("list levels of %q: %w", grade.Name, err)
		}
		for _, level := range levels {
			if level.Type != "dir" {
				continue
			}
			tree[grade.Name][level.Name] = make(map[string]Subject)

			files, err := c.listContents(ctx, grade.Name+"/"+level.Name)
			if err != nil {
				return nil, fmt.Errorf("list subjects of %q/%q: %w", grade.Name, level.Name, err)
			}
			for _, file := range files {
				if file.Type != "file" || !strings.HasSuffix(file.Name, ".json") {
					continue
				}
				subject, err := c.fetchSubject(ctx, file.DownloadURL)
				if err != nil {
					c.log.Warnw("skipping invalid subject file",
						"grade", grade.Name, "level", level.Name, "file", file.Name, "error", err)
					continue
				}
				name := strings.TrimSuffix(file.Name, ".json")
				tree[grade.Name][level.Name][name] = subject
			}
		}
	}

	tree.Filter()
	return tree, nil
}

func (c *Client) listContents(ctx context.Context, path string) ([]dirEntry, error) {
	url := c.baseURL
	if path != "" {
		url += "/" + path
	}
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		// A missing directory is treated as empty, matching how partial
		// content repos behave.
		c.log.Warnw("contents listing returned non-OK status", "url", url, "status", status)
		return nil, nil
	}
	var entries []dirEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", url, err)
	}
	return entries, nil
}

func (c *Client) fetchSubject(ctx context.Context, url string) (Subject, error) {
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, status)
	}
	var subject Subject
	if err := json.Unmarshal(body, &subject); err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return subject, nil
}

// FetchSplash loads the remote splash-text list: a plain JSON array of
// strings.
func (c *Client) FetchSplash(ctx context.Context, url string) ([]string, error) {
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch splash: status %d", status)
	}
	var lines []string
	if err := json.Unmarshal(body, &lines); err != nil {
		return nil, fmt.Errorf("parse splash: %w", err)
	}
	return lines, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
