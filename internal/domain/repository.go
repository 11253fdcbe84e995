// Package domain contains the core data structures and domain logic for the application.
package domain

import "strings"

const (
	githubHTTPSPrefix = "https://github.com/"
	githubSSHPrefix   = "git@github.com:"
)

// Repository describes a remote GitHub repository.
// It is created by the create-or-fetch step and never mutated afterwards.
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	CloneURL string `json:"clone_url"`
	HTMLURL  string `json:"html_url"`
	Private  bool   `json:"private"`
}

// RemoteURL returns the URL the local "origin" remote should point at.
func (r *Repository) RemoteURL() string {
	return SSHRemoteURL(r.CloneURL)
}

// SSHRemoteURL rewrites an HTTPS github.com clone URL to its SSH form.
// Any other URL is returned unchanged.
func SSHRemoteURL(cloneURL string) string {
	if strings.HasPrefix(cloneURL, githubHTTPSPrefix) {
		return githubSSHPrefix + strings.TrimPrefix(cloneURL, githubHTTPSPrefix)
	}
	return cloneURL
}

// Installation is a GitHub App installation visible to the authenticated user.
type Installation struct {
	ID           int64  `json:"id"`
	AppSlug      string `json:"app_slug"`
	AccountLogin string `json:"account_login"`
}

// Matches reports whether the installation belongs to the given app.
// The app slug is compared first, falling back to the account login when the slug is empty.
func (i Installation) Matches(slug string) bool {
	candidate := i.AppSlug
	if candidate == "" {
		candidate = i.AccountLogin
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(slug))
}

// Workspace is the local working copy and its origin remote.
type Workspace struct {
	Path      string `json:"path"`
	RemoteURL string `json:"remote_url"`
}

// RepositoryStatus is the combined remote and local view reported by the status command.
type RepositoryStatus struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	URL              string `json:"url"`
	SSHURL           string `json:"ssh_url"`
	Private          bool   `json:"private"`
	DefaultBranch    string `json:"default_branch"`
	ViewerPermission string `json:"viewer_permission"`
	LocalPath        string `json:"local_path,omitempty"`
	LocalOrigin      string `json:"local_origin,omitempty"`
	LocalBranch      string `json:"local_branch,omitempty"`
	OriginMatches    bool   `json:"origin_matches"`
}
