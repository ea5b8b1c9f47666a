// Package update checks GitHub for newer sheetkit releases.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	githubRepo    = "klytics/sheetkit"
	checkTimeout  = 3 * time.Second
	defaultAPIURL = "https://api.github.com"
)

// ReleaseInfo is the part of a GitHub release the checker reads.
type ReleaseInfo struct {
	Version     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
	Body        string    `json:"body"`
}

// Checker queries the releases API.
type Checker struct {
	// APIURL defaults to the public GitHub API.
	APIURL string
	Client *http.Client
}

// CheckLatest returns the latest release when it is newer than current, or
// nil when current is up to date or a development build.
func (c *Checker) CheckLatest(ctx context.Context, current string) (*ReleaseInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	base := c.APIURL
	if base == "" {
		base = defaultAPIURL
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimSuffix(base, "/"), githubRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not check for updates: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("GitHub API rate limited — try again later")
	default:
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("could not parse release info: %w", err)
	}
	if !IsNewer(release.Version, current) {
		return nil, nil
	}
	return &release, nil
}

// IsNewer reports whether latest is a higher version than current. Versions
// compare numerically by dotted component, ignoring a leading "v" and any
// pre-release suffix. Development builds never compare older.
func IsNewer(latest, current string) bool {
	if current == "" || current == "dev" {
		return false
	}
	l, c := parts(latest), parts(current)
	for i := 0; i < max(len(l), len(c)); i++ {
		var a, b int
		if i < len(l) {
			a = l[i]
		}
		if i < len(c) {
			b = c[i]
		}
		if a != b {
			return a > b
		}
	}
	return false
}

func parts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var out []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out = append(out, n)
	}
	return out
}

// FormatNotice returns the message shown when an update is available.
func FormatNotice(current string, release *ReleaseInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current version: %s\n", current)
	fmt.Fprintf(&sb, "Latest version:  %s  (released %s)\n", release.Version, release.PublishedAt.Format("2006-01-02"))

	if body := strings.TrimSpace(release.Body); body != "" {
		sb.WriteString("\nWhat's new:\n")
		lines := strings.Split(body, "\n")
		for _, line := range lines[:min(len(lines), 5)] {
			sb.WriteString("  " + strings.TrimRight(line, "\r") + "\n")
		}
	}

	sb.WriteString("\nTo update:\n")
	sb.WriteString("  go install github.com/klytics/sheetkit/cmd/sheetkit@latest\n")
	if release.HTMLURL != "" {
		fmt.Fprintf(&sb, "  or download from %s\n", release.HTMLURL)
	}
	return sb.String()
}
