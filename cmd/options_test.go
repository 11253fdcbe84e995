package cmd

import (
	"bytes"
	"testing"

	"github.com/naka-gawa/claudeup/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildGrants(t *testing.T) {
	testCases := []struct {
		name     string
		opts     setupOptions
		env      string
		expected []domain.AccessGrant
		warning  string
	}{
		{
			name:     "app lookup by slug",
			opts:     setupOptions{appSlug: "claude"},
			expected: []domain.AccessGrant{domain.AppInstallationGrant{AppSlug: "claude"}},
		},
		{
			name:     "explicit installation id wins over env",
			opts:     setupOptions{appSlug: "claude", installationID: 5},
			env:      "9",
			expected: []domain.AccessGrant{domain.AppInstallationGrant{AppSlug: "claude", InstallationID: 5}},
		},
		{
			name:     "installation id from env",
			opts:     setupOptions{appSlug: "claude"},
			env:      "9",
			expected: []domain.AccessGrant{domain.AppInstallationGrant{AppSlug: "claude", InstallationID: 9}},
		},
		{
			name:     "invalid env installation id is ignored",
			opts:     setupOptions{appSlug: "claude"},
			env:      "abc",
			expected: []domain.AccessGrant{domain.AppInstallationGrant{AppSlug: "claude"}},
			warning:  "CLAUDE_INSTALLATION_ID env var is not a valid number: abc",
		},
		{
			name:     "installation id disabled",
			opts:     setupOptions{appSlug: "claude", installationID: 5, noInstallationID: true},
			env:      "9",
			expected: []domain.AccessGrant{domain.AppInstallationGrant{AppSlug: "claude"}},
		},
		{
			name: "app first, collaborator second",
			opts: setupOptions{appSlug: "claude", collaborator: "bot", permission: "push"},
			expected: []domain.AccessGrant{
				domain.AppInstallationGrant{AppSlug: "claude"},
				domain.CollaboratorGrant{Username: "bot", Permission: "push"},
			},
		},
		{
			name:     "both disabled",
			opts:     setupOptions{noApp: true, collaborator: "bot", noCollaborator: true},
			expected: nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(installationIDEnv, tc.env)
			var warn bytes.Buffer

			assert.Equal(t, tc.expected, buildGrants(tc.opts, &warn))
			if tc.warning != "" {
				assert.Contains(t, warn.String(), tc.warning)
			} else {
				assert.Empty(t, warn.String())
			}
		})
	}
}

func TestAPIHost(t *testing.T) {
	assert.Equal(t, "github.com", apiHost(""))
	assert.Equal(t, "github.com", apiHost("https://api.github.com/"))
	assert.Equal(t, "ghe.example.com", apiHost("https://ghe.example.com/api/v3/"))
	assert.Equal(t, "github.com", apiHost("::not a url"))
}
