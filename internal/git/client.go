// Package git runs the git command-line tool against a single working copy.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cli/safeexec"
)

// Client runs git commands inside RepoDir.
type Client struct {
	RepoDir string
	GitPath string
	logger  *log.Logger
}

// NewClient creates a client for the working copy at repoDir.
func NewClient(repoDir string, logger *log.Logger) (*Client, error) {
	gitPath, err := safeexec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git executable not found: %w", err)
	}
	return &Client{
		RepoDir: repoDir,
		GitPath: gitPath,
		logger:  logger,
	}, nil
}

// PushOptions configures push behavior
type PushOptions struct {
	SetUpstream bool
}

// Command creates a git command rooted at RepoDir.
// Do not set Stdout/Stderr if you plan to use CombinedOutput().
func (c *Client) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.GitPath, args...)
	if c.RepoDir != "" {
		cmd.Dir = c.RepoDir
	}
	return cmd
}

// run executes git and returns trimmed stdout, wrapping failures in a GitError.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.logger.Printf("git %s", strings.Join(args, " "))
	cmd := c.Command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", NewGitError(args, stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// IsRepository reports whether RepoDir already has a .git entry.
// Worktrees and submodules use a .git file, so either kind counts.
func (c *Client) IsRepository() bool {
	_, err := os.Stat(filepath.Join(c.RepoDir, ".git"))
	return err == nil
}

// Init creates a new repository in RepoDir.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.run(ctx, "init")
	return err
}

// GetRemoteURL returns the URL for a remote
func (c *Client) GetRemoteURL(ctx context.Context, remote string) (string, error) {
	return c.run(ctx, "remote", "get-url", remote)
}

// SetRemoteURL points an existing remote at url.
func (c *Client) SetRemoteURL(ctx context.Context, remote, url string) error {
	_, err := c.run(ctx, "remote", "set-url", remote, url)
	return err
}

// AddRemote creates a new remote.
func (c *Client) AddRemote(ctx context.Context, remote, url string) error {
	_, err := c.run(ctx, "remote", "add", remote, url)
	return err
}

// AddAll stages every change in the working copy.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", ".")
	return err
}

// HasStagedChanges reports whether the index differs from the last commit.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := c.run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	if GetExitCode(err) == 1 {
		return true, nil
	}
	return false, err
}

// Commit creates a commit
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

// CurrentBranch returns the checked-out branch, or "" when HEAD is detached.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, "branch", "--show-current")
}

// BranchExists reports whether branch resolves to a commit.
func (c *Client) BranchExists(ctx context.Context, branch string) bool {
	_, err := c.run(ctx, "rev-parse", "--verify", branch)
	return err == nil
}

// Checkout switches to branch, creating it from HEAD when create is set.
func (c *Client) Checkout(ctx context.Context, branch string, create bool) error {
	args := []string{"checkout"}
	if create {
		args = append(args, "-b")
	}
	args = append(args, branch)
	_, err := c.run(ctx, args...)
	return err
}

// Push pushes branch to remote.
func (c *Client) Push(ctx context.Context, remote, branch string, opts PushOptions) error {
	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	_, err := c.run(ctx, args...)
	return err
}

// GitError represents a git command error
type GitError struct {
	Args     []string
	ExitCode int
	Stderr   string
	err      error
}

// NewGitError creates a GitError from command output and error
func NewGitError(args []string, stderr string, err error) *GitError {
	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &GitError{
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		err:      err,
	}
}

func (e *GitError) Error() string {
	cmd := strings.Join(append([]string{"git"}, e.Args...), " ")
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", cmd, e.err)
	}
	return fmt.Sprintf("%s failed: %s", cmd, strings.TrimSpace(e.Stderr))
}

func (e *GitError) Unwrap() error {
	return e.err
}

// GetExitCode returns the exit code from a git error, or -1 if not available
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return gitErr.ExitCode
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
