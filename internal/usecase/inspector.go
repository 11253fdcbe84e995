package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/naka-gawa/claudeup/internal/domain"
	"github.com/naka-gawa/claudeup/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Inspector reports the remote and local state of a bootstrapped repository.
type Inspector struct {
	fetcher gateway.StatusFetcher
	newGit  GitFactory
	logger  *log.Logger
}

// NewInspector creates a new Inspector that opens working copies with newGit.
func NewInspector(fetcher gateway.StatusFetcher, newGit GitFactory, logger *log.Logger) *Inspector {
	return &Inspector{
		fetcher: fetcher,
		newGit:  newGit,
		logger:  logger,
	}
}

type localState struct {
	origin string
	branch string
}

// Inspect fetches the repository (name or owner/name) and, concurrently, the working copy at path.
// Remote failures are returned; local failures only leave the local fields empty.
func (i *Inspector) Inspect(ctx context.Context, name, path string) (*domain.RepositoryStatus, error) {
	var status *domain.RepositoryStatus
	var local localState

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		owner, repo, ok := strings.Cut(name, "/")
		if !ok {
			login, err := i.fetcher.ViewerLogin(egCtx)
			if err != nil {
				return err
			}
			owner, repo = login, name
		}
		var err error
		status, err = i.fetcher.FetchRepositoryStatus(egCtx, owner, repo)
		return err
	})

	if path != "" {
		eg.Go(func() error {
			local = i.inspectLocal(egCtx, path)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	status.LocalPath = path
	status.LocalOrigin = local.origin
	status.LocalBranch = local.branch
	status.OriginMatches = originMatches(local.origin, status)
	return status, nil
}

// originMatches accepts the SSH URL GitHub reports or the URL this tool would have configured.
func originMatches(origin string, status *domain.RepositoryStatus) bool {
	if origin == "" {
		return false
	}
	return origin == status.SSHURL || origin == domain.SSHRemoteURL(status.URL+".git")
}

func (i *Inspector) inspectLocal(ctx context.Context, path string) localState {
	g, err := i.newGit(path)
	if err != nil {
		i.logger.Printf("cannot open %s: %v", path, err)
		return localState{}
	}
	if !g.IsRepository() {
		i.logger.Printf("%s is not a git repository", path)
		return localState{}
	}
	var st localState
	if st.origin, err = g.GetRemoteURL(ctx, RemoteName); err != nil {
		i.logger.Printf("no %s remote in %s: %v", RemoteName, path, err)
	}
	if st.branch, err = g.CurrentBranch(ctx); err != nil {
		i.logger.Printf("cannot read current branch in %s: %v", path, err)
	}
	return st
}
