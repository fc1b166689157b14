// Package browser supplies the candidate pools: live tabs from a local
// Chromium's DevTools remote-debugging endpoints and bookmarks from the
// browser's own Bookmarks file. The ranking core never talks to the
// browser directly; it only sees the snapshots these sources produce.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/montrey/tabdash/search"
)

// DefaultPort is Chromium's conventional --remote-debugging-port.
const DefaultPort = 9222

// Client talks to the DevTools HTTP endpoints (/json/list, /json/activate,
// /json/close, /json/new) of a locally running browser.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		http:    &http.Client{Timeout: 3 * time.Second},
	}
}

// target is one entry of /json/list.
type target struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FaviconURL string `json:"faviconUrl"`
}

// Tabs returns the open page tabs. Extensions, workers and devtools
// windows are filtered out. Fields the browser omits come back as empty
// strings, never errors.
func (c *Client) Tabs(ctx context.Context) ([]search.Tab, error) {
	targets, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	var tabs []search.Tab
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		tabs = append(tabs, search.Tab{
			ID:      search.TabID(t.ID),
			Title:   t.Title,
			URL:     t.URL,
			Favicon: t.FaviconURL,
		})
	}
	return tabs, nil
}

// CurrentTab returns the identity of the most recently focused page tab,
// or "" when no page is open. The list endpoint orders targets by focus
// recency, so the first page stands in for "the tab the user is on".
func (c *Client) CurrentTab(ctx context.Context) (search.TabID, error) {
	tabs, err := c.Tabs(ctx)
	if err != nil {
		return "", err
	}
	if len(tabs) == 0 {
		return "", nil
	}
	return tabs[0].ID, nil
}

// Activate brings the tab to the foreground.
func (c *Client) Activate(ctx context.Context, id search.TabID) error {
	return c.command(ctx, http.MethodGet, "/json/activate/"+string(id))
}

// Close asks the browser to close the tab. The tab disappears from a
// later snapshot, not synchronously.
func (c *Client) Close(ctx context.Context, id search.TabID) error {
	return c.command(ctx, http.MethodGet, "/json/close/"+string(id))
}

// Open creates a new tab at the given URL. Chromium requires PUT here
// since v97.
func (c *Client) Open(ctx context.Context, target string) error {
	return c.command(ctx, http.MethodPut, "/json/new?"+url.Values{"url": {target}}.Encode())
}

func (c *Client) list(ctx context.Context) ([]target, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/list", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list tabs: unexpected status %s", resp.Status)
	}
	var targets []target
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return nil, fmt.Errorf("failed to decode tab list: %w", err)
	}
	return targets, nil
}

func (c *Client) command(ctx context.Context, method, path string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("browser request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("browser request %s: unexpected status %s", path, resp.Status)
	}
	return nil
}
