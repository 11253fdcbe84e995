package usecase

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/naka-gawa/claudeup/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockAPI is a mock implementation of the gateway.RepositoryAPI interface.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) CreateRepository(ctx context.Context, name, description string, private bool) (*domain.Repository, error) {
	args := m.Called(ctx, name, description, private)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *mockAPI) AuthenticatedLogin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *mockAPI) AddCollaborator(ctx context.Context, repo *domain.Repository, username, permission string) (bool, error) {
	args := m.Called(ctx, repo, username, permission)
	return args.Bool(0), args.Error(1)
}

func (m *mockAPI) ListInstallations(ctx context.Context) ([]domain.Installation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installation), args.Error(1)
}

func (m *mockAPI) AddRepositoryToInstallation(ctx context.Context, installationID, repoID int64) (bool, error) {
	args := m.Called(ctx, installationID, repoID)
	return args.Bool(0), args.Error(1)
}

// mockStatusFetcher is a mock implementation of the gateway.StatusFetcher interface.
type mockStatusFetcher struct {
	mock.Mock
}

func (m *mockStatusFetcher) ViewerLogin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockStatusFetcher) FetchRepositoryStatus(ctx context.Context, owner, name string) (*domain.RepositoryStatus, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryStatus), args.Error(1)
}

// apiError builds the error go-github returns for a non-2xx answer.
func apiError(status int, message string, details ...string) error {
	resp := &github.ErrorResponse{
		Response: &http.Response{
			StatusCode: status,
			Request:    &http.Request{Method: http.MethodPost, URL: &url.URL{Path: "/user/repos"}},
		},
		Message: message,
	}
	for _, d := range details {
		resp.Errors = append(resp.Errors, github.Error{Message: d})
	}
	return resp
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// isolateGit skips without git and keeps user/system config out of the tests.
func isolateGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	globalConfig := filepath.Join(t.TempDir(), "gitconfig")
	require.NoError(t, os.WriteFile(globalConfig, nil, 0o644))
	t.Setenv("GIT_CONFIG_GLOBAL", globalConfig)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test.com")
}

// gitOutput runs git in dir and returns its trimmed output.
func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return string(out)
}

// newBareRemote creates a bare repository usable as a push target.
func newBareRemote(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "remote.git")
	gitOutput(t, t.TempDir(), "init", "--bare", bare)
	return bare
}
