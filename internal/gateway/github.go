// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/claudeup/internal/domain"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

// RepositoryAPI defines the REST calls the bootstrap workflow makes against GitHub.
type RepositoryAPI interface {
	CreateRepository(ctx context.Context, name, description string, private bool) (*domain.Repository, error)
	AuthenticatedLogin(ctx context.Context) (string, error)
	GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error)
	// AddCollaborator reports whether a new invitation was created (false when the user already has access).
	AddCollaborator(ctx context.Context, repo *domain.Repository, username, permission string) (bool, error)
	ListInstallations(ctx context.Context) ([]domain.Installation, error)
	// AddRepositoryToInstallation reports whether the repository was already attached.
	AddRepositoryToInstallation(ctx context.Context, installationID, repoID int64) (bool, error)
}

// StatusFetcher reads repository state for the status command.
type StatusFetcher interface {
	ViewerLogin(ctx context.Context) (string, error)
	FetchRepositoryStatus(ctx context.Context, owner, name string) (*domain.RepositoryStatus, error)
}

// GitHubGateway is the concrete implementation of RepositoryAPI and StatusFetcher.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// viewerQuery resolves the login of the token owner.
type viewerQuery struct {
	Viewer struct {
		Login string
	}
}

// repositoryStatusQuery fetches what the status command reports about a repository.
type repositoryStatusQuery struct {
	Repository struct {
		DatabaseID       int64 `graphql:"databaseId"`
		NameWithOwner    string
		URL              string
		SSHURL           string `graphql:"sshUrl"`
		IsPrivate        bool
		ViewerPermission string
		DefaultBranchRef struct {
			Name string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty apiURL selects the public GitHub API; anything else is treated as a GitHub Enterprise host.
func NewGitHubGateway(token, apiURL string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != strings.TrimSuffix(DefaultAPIURL, "/") {
		restClient, err = restClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(enterpriseGraphQLURL(apiURL), httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// enterpriseGraphQLURL maps https://host/api/v3/ to https://host/api/graphql.
func enterpriseGraphQLURL(apiURL string) string {
	base := strings.TrimSuffix(apiURL, "/")
	base = strings.TrimSuffix(base, "/v3")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return base + "/graphql"
}

func (g *GitHubGateway) CreateRepository(ctx context.Context, name, description string, private bool) (*domain.Repository, error) {
	g.logger.Printf("POST /user/repos name=%s private=%t", name, private)
	// Repositories.Create swaps in preview media types; build the request so the v3 Accept header stays.
	req, err := g.restClient.NewRequest(http.MethodPost, "user/repos", &github.Repository{
		Name:        github.Ptr(name),
		Description: github.Ptr(description),
		Private:     github.Ptr(private),
		AutoInit:    github.Ptr(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build create request for %q: %w", name, err)
	}
	repo := new(github.Repository)
	if _, err := g.restClient.Do(ctx, req, repo); err != nil {
		return nil, fmt.Errorf("failed to create repository %q: %w", name, err)
	}
	return toDomainRepository(repo), nil
}

func (g *GitHubGateway) AuthenticatedLogin(ctx context.Context) (string, error) {
	g.logger.Println("GET /user")
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if user.GetLogin() == "" {
		return "", errors.New("authenticated user has no login")
	}
	return user.GetLogin(), nil
}

func (g *GitHubGateway) GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	g.logger.Printf("GET /repos/%s/%s", owner, name)
	repo, _, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return toDomainRepository(repo), nil
}

func (g *GitHubGateway) AddCollaborator(ctx context.Context, repo *domain.Repository, username, permission string) (bool, error) {
	owner, name, err := splitFullName(repo.FullName)
	if err != nil {
		return false, err
	}
	g.logger.Printf("PUT /repos/%s/collaborators/%s permission=%s", repo.FullName, username, permission)
	_, resp, err := g.restClient.Repositories.AddCollaborator(ctx, owner, name, username, &github.RepositoryAddCollaboratorOptions{
		Permission: permission,
	})
	if err != nil {
		return false, fmt.Errorf("failed to add collaborator %q to %s: %w", username, repo.FullName, err)
	}
	// 201 carries an invitation; 204 means the user already has access.
	return resp.StatusCode == http.StatusCreated, nil
}

func (g *GitHubGateway) ListInstallations(ctx context.Context) ([]domain.Installation, error) {
	g.logger.Println("GET /user/installations")
	opts := &github.ListOptions{PerPage: 100}
	var installations []domain.Installation
	for {
		page, resp, err := g.restClient.Apps.ListUserInstallations(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list app installations: %w", err)
		}
		for _, inst := range page {
			installations = append(installations, domain.Installation{
				ID:           inst.GetID(),
				AppSlug:      inst.GetAppSlug(),
				AccountLogin: inst.GetAccount().GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of installations...")
	}
	return installations, nil
}

func (g *GitHubGateway) AddRepositoryToInstallation(ctx context.Context, installationID, repoID int64) (bool, error) {
	g.logger.Printf("PUT /user/installations/%d/repositories/%d", installationID, repoID)
	_, _, err := g.restClient.Apps.AddRepository(ctx, installationID, repoID)
	if err != nil {
		if IsNotModified(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to add repository %d to installation %d: %w", repoID, installationID, err)
	}
	return false, nil
}

func (g *GitHubGateway) ViewerLogin(ctx context.Context) (string, error) {
	var q viewerQuery
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return "", fmt.Errorf("failed to execute GraphQL query for viewer: %w", err)
	}
	return q.Viewer.Login, nil
}

func (g *GitHubGateway) FetchRepositoryStatus(ctx context.Context, owner, name string) (*domain.RepositoryStatus, error) {
	g.logger.Printf("Fetching repository status for %s/%s...", owner, name)
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	var q repositoryStatusQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for repository status: %w", err)
	}
	r := q.Repository
	return &domain.RepositoryStatus{
		ID:               r.DatabaseID,
		FullName:         r.NameWithOwner,
		URL:              r.URL,
		SSHURL:           r.SSHURL,
		Private:          r.IsPrivate,
		DefaultBranch:    r.DefaultBranchRef.Name,
		ViewerPermission: r.ViewerPermission,
	}, nil
}

func toDomainRepository(repo *github.Repository) *domain.Repository {
	return &domain.Repository{
		ID:       repo.GetID(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		CloneURL: repo.GetCloneURL(),
		HTMLURL:  repo.GetHTMLURL(),
		Private:  repo.GetPrivate(),
	}
}

func splitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository full name %q", fullName)
	}
	return owner, name, nil
}
