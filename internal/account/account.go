// Package account reads account metadata from the Claude CLI's own config
// files: the account origin timestamp that anchors the weekly reset cycle,
// and per-project cost rollups used for lifetime totals.
package account

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Info holds account metadata extracted from ~/.claude.json.
type Info struct {
	// Origin is the first-ever-usage timestamp; zero when unknown.
	Origin time.Time
	// ConfigCost is the lifetime cost rollup summed across projects.
	ConfigCost float64
	Projects   []ProjectCost
	Name       string
}

// ProjectCost is one project's last recorded cost and token rollup.
type ProjectCost struct {
	Path         string
	Cost         float64
	InputTokens  int64
	OutputTokens int64
}

type rawConfig struct {
	FirstStartTime           string `json:"firstStartTime"`
	ClaudeCodeFirstTokenDate string `json:"claudeCodeFirstTokenDate"`
	OAuthAccount             struct {
		DisplayName string `json:"displayName"`
	} `json:"oauthAccount"`
	Projects map[string]rawProject `json:"projects"`
}

type rawProject struct {
	LastCost              float64 `json:"lastCost"`
	LastTotalInputTokens  int64   `json:"lastTotalInputTokens"`
	LastTotalOutputTokens int64   `json:"lastTotalOutputTokens"`
}

// Read parses the account config file. Missing or malformed files are a
// normal condition and yield a zero Info, never an error.
func Read(configPath string) Info {
	data, err := os.ReadFile(configPath) //nolint:gosec // path is the user's own config file
	if err != nil {
		return Info{}
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}
	}

	info := Info{Name: raw.OAuthAccount.DisplayName}

	originRaw := raw.FirstStartTime
	if originRaw == "" {
		originRaw = raw.ClaudeCodeFirstTokenDate
	}
	if originRaw != "" {
		if t, err := time.Parse(time.RFC3339Nano, originRaw); err == nil {
			info.Origin = t.Local()
		}
	}

	for path, p := range raw.Projects {
		info.ConfigCost += p.LastCost
		info.Projects = append(info.Projects, ProjectCost{
			Path:         path,
			Cost:         p.LastCost,
			InputTokens:  p.LastTotalInputTokens,
			OutputTokens: p.LastTotalOutputTokens,
		})
	}
	sort.Slice(info.Projects, func(i, j int) bool {
		return info.Projects[i].Cost > info.Projects[j].Cost
	})

	return info
}

// Subscription reads the subscription type from the CLI credential store.
// Returns "unknown" when the credential file is missing or unreadable.
func Subscription(claudeDir string) string {
	path := filepath.Join(claudeDir, ".credentials.json")
	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own credential file
	if err != nil {
		return "unknown"
	}

	var creds struct {
		ClaudeAiOauth struct {
			SubscriptionType string `json:"subscriptionType"`
		} `json:"claudeAiOauth"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "unknown"
	}
	sub := creds.ClaudeAiOauth.SubscriptionType
	if sub == "" {
		return "unknown"
	}
	return strings.ToUpper(sub[:1]) + sub[1:]
}
