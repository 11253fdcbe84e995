// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/naka-gawa/claudeup/internal/domain"
	"github.com/naka-gawa/claudeup/internal/gateway"
	"github.com/naka-gawa/claudeup/internal/git"
	"github.com/naka-gawa/claudeup/internal/scaffold"
)

const (
	// DefaultBranch is the branch the initial commit is pushed to.
	DefaultBranch = "main"
	// RemoteName is the remote the workspace is wired to.
	RemoteName = "origin"
	// CommitMessage is used for the initial commit.
	CommitMessage = "Initial commit via ClaudeUp"

	installationsURL = "https://github.com/settings/installations"
)

// Git is the subset of git operations the bootstrap workflow runs in a working copy.
type Git interface {
	IsRepository() bool
	Init(ctx context.Context) error
	GetRemoteURL(ctx context.Context, remote string) (string, error)
	SetRemoteURL(ctx context.Context, remote, url string) error
	AddRemote(ctx context.Context, remote, url string) error
	AddAll(ctx context.Context) error
	HasStagedChanges(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string) error
	CurrentBranch(ctx context.Context) (string, error)
	BranchExists(ctx context.Context, branch string) bool
	Checkout(ctx context.Context, branch string, create bool) error
	Push(ctx context.Context, remote, branch string, opts git.PushOptions) error
}

// GitFactory opens a Git for the working copy at dir.
type GitFactory func(dir string) (Git, error)

// Config is everything a single bootstrap run needs. It is built once by the caller.
type Config struct {
	Name         string
	Description  string
	Path         string // empty means the current directory
	Instructions string
	Private      bool
	Branch       string // empty means DefaultBranch
	Grants       []domain.AccessGrant
}

// Bootstrapper creates a GitHub repository, grants access to it and wires a local working copy to it.
type Bootstrapper struct {
	api    gateway.RepositoryAPI
	newGit GitFactory
	logger *log.Logger
}

// NewBootstrapper creates a new Bootstrapper backed by the git executable on PATH.
func NewBootstrapper(api gateway.RepositoryAPI, logger *log.Logger) *Bootstrapper {
	return &Bootstrapper{
		api:    api,
		newGit: DefaultGitFactory(logger),
		logger: logger,
	}
}

// DefaultGitFactory opens working copies with the git executable on PATH.
func DefaultGitFactory(logger *log.Logger) GitFactory {
	return func(dir string) (Git, error) {
		c, err := git.NewClient(dir, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// WithGitFactory replaces how working copies are opened.
func (b *Bootstrapper) WithGitFactory(f GitFactory) *Bootstrapper {
	b.newGit = f
	return b
}

// Run executes the whole workflow: repository, access grants, workspace, files, commit and push.
// Only fatal failures are returned as errors; everything else is recorded in the result's outcomes.
// A fatal failure after the repository exists returns the partial result alongside the error.
func (b *Bootstrapper) Run(ctx context.Context, cfg Config) (*domain.SetupResult, error) {
	b.logger.Printf("Usecase: Starting bootstrap of %q...", cfg.Name)

	path, err := resolvePath(cfg.Path)
	if err != nil {
		return nil, err
	}
	result := &domain.SetupResult{Path: path}

	repo, outcome, err := b.CreateOrGetRepository(ctx, cfg.Name, cfg.Description, cfg.Private)
	if err != nil {
		return nil, err
	}
	result.Repository = repo
	result.Outcomes = append(result.Outcomes, outcome)

	for _, grant := range cfg.Grants {
		result.Outcomes = append(result.Outcomes, b.GrantAccess(ctx, repo, grant)...)
	}

	// Fatal errors from here on return the partial result.
	g, err := b.newGit(path)
	if err != nil {
		return result.Abort(domain.StepWorkspace, err)
	}

	outcome, err = b.InitializeWorkspace(ctx, g, repo)
	if err != nil {
		return result.Abort(domain.StepWorkspace, err)
	}
	result.Workspace = &domain.Workspace{Path: path, RemoteURL: repo.RemoteURL()}
	result.Outcomes = append(result.Outcomes, outcome)

	outcomes, err := b.ScaffoldFiles(path, cfg.Name, cfg.Description, cfg.Instructions)
	if err != nil {
		return result.Abort(domain.StepScaffold, err)
	}
	result.Outcomes = append(result.Outcomes, outcomes...)

	report := b.CommitAndPush(ctx, g, cfg.Branch)
	result.Committed = report.Committed
	result.Pushed = report.Pushed
	result.Outcomes = append(result.Outcomes, report.Outcomes...)

	b.logger.Println("Usecase: Bootstrap complete.")
	return result, nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving current directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", path, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", abs, err)
	}
	return abs, nil
}

// CreateOrGetRepository creates the repository, falling back to the existing one when the name is taken.
func (b *Bootstrapper) CreateOrGetRepository(ctx context.Context, name, description string, private bool) (*domain.Repository, domain.Outcome, error) {
	repo, err := b.api.CreateRepository(ctx, name, description, private)
	if err == nil {
		return repo, domain.Info(domain.StepRepository, "Repository '%s' created successfully", name), nil
	}
	if !gateway.IsAlreadyExists(err) {
		return nil, domain.Outcome{}, err
	}

	b.logger.Printf("Repository %q already exists, fetching it", name)
	login, err := b.api.AuthenticatedLogin(ctx)
	if err != nil {
		return nil, domain.Outcome{}, err
	}
	repo, err = b.api.GetRepository(ctx, login, name)
	if err != nil {
		return nil, domain.Outcome{}, err
	}
	return repo, domain.Info(domain.StepRepository, "Repository '%s' already exists", repo.FullName), nil
}

// GrantAccess applies one access grant. Failures never abort the workflow.
func (b *Bootstrapper) GrantAccess(ctx context.Context, repo *domain.Repository, grant domain.AccessGrant) []domain.Outcome {
	switch g := grant.(type) {
	case domain.CollaboratorGrant:
		return []domain.Outcome{b.grantCollaborator(ctx, repo, g)}
	case domain.AppInstallationGrant:
		return b.grantInstallation(ctx, repo, g)
	default:
		return []domain.Outcome{domain.Warning(domain.StepCollaborator, fmt.Sprintf("Unsupported access grant %T", grant))}
	}
}

func (b *Bootstrapper) grantCollaborator(ctx context.Context, repo *domain.Repository, g domain.CollaboratorGrant) domain.Outcome {
	permission := g.Permission
	if permission == "" {
		permission = domain.DefaultPermission
	}
	manual := fmt.Sprintf("Invite the user manually at: %s/settings/access", repo.HTMLURL)

	invited, err := b.api.AddCollaborator(ctx, repo, g.Username, permission)
	switch {
	case gateway.IsNotFound(err):
		return domain.Warning(domain.StepCollaborator,
			fmt.Sprintf("Warning: GitHub user '%s' not found, collaborator not added", g.Username),
			"Check the username and re-run with: --collaborator <username>",
			manual)
	case err != nil:
		return domain.Warning(domain.StepCollaborator,
			fmt.Sprintf("Warning: Failed to add collaborator '%s': %v", g.Username, err),
			manual)
	case invited:
		return domain.Info(domain.StepCollaborator, "Invited '%s' to %s with %s permission", g.Username, repo.FullName, permission)
	default:
		return domain.Info(domain.StepCollaborator, "'%s' already has access to %s", g.Username, repo.FullName)
	}
}

func (b *Bootstrapper) grantInstallation(ctx context.Context, repo *domain.Repository, g domain.AppInstallationGrant) []domain.Outcome {
	if g.InstallationID != 0 {
		return []domain.Outcome{b.attach(ctx, repo, g.InstallationID, fmt.Sprintf("installation (ID: %d)", g.InstallationID),
			fmt.Sprintf("Verify the installation ID is correct: %d", g.InstallationID),
			"Check your app settings at: "+installationsURL)}
	}

	var outcomes []domain.Outcome
	installations, err := b.api.ListInstallations(ctx)
	if err != nil {
		outcomes = append(outcomes, domain.Warning(domain.StepInstallation,
			fmt.Sprintf("Warning: Failed to list installations: %v", err)))
	}

	inst, ok := FindInstallation(installations, g.AppSlug)
	if !ok {
		return append(outcomes, domain.Warning(domain.StepInstallation,
			fmt.Sprintf("Warning: GitHub App '%s' not found in your installations", g.AppSlug),
			appNotFoundRemediation(repo, g.AppSlug)...))
	}

	name := inst.AppSlug
	if name == "" {
		name = g.AppSlug
	}
	return append(outcomes, b.attach(ctx, repo, inst.ID, fmt.Sprintf("'%s' GitHub App installation", name),
		"You may need to manually add the repository in the app settings: "+installationsURL))
}

func (b *Bootstrapper) attach(ctx context.Context, repo *domain.Repository, installationID int64, label string, remediation ...string) domain.Outcome {
	already, err := b.api.AddRepositoryToInstallation(ctx, installationID, repo.ID)
	switch {
	case err != nil:
		b.logger.Printf("attach failed: %v", err)
		return domain.Warning(domain.StepInstallation, "Warning: Failed to add repository to GitHub App installation", remediation...)
	case already:
		return domain.Info(domain.StepInstallation, "Repository already added to %s", label)
	default:
		return domain.Info(domain.StepInstallation, "Added repository to %s", label)
	}
}

// FindInstallation returns the first installation whose app slug (or account login) contains slug, ignoring case.
func FindInstallation(installations []domain.Installation, slug string) (domain.Installation, bool) {
	for _, inst := range installations {
		if inst.Matches(slug) {
			return inst, true
		}
	}
	return domain.Installation{}, false
}

func appNotFoundRemediation(repo *domain.Repository, slug string) []string {
	return []string{
		"Classic GitHub PATs cannot list app installations.",
		"To fix this, you have two options:",
		"",
		"Option 1: Provide the installation ID",
		"  1. Visit: " + installationsURL,
		fmt.Sprintf("  2. Click 'Configure' next to the %s app", slug),
		"  3. Look at the URL - it ends with /installations/XXXXXXXX",
		fmt.Sprintf("  4. Run: claudeup --installation-id XXXXXXXX %s", repo.Name),
		"",
		"Option 2: Manually add the repository",
		"  1. Visit: " + installationsURL,
		fmt.Sprintf("  2. Click 'Configure' next to the %s app", slug),
		fmt.Sprintf("  3. Add the repository: %s", repo.FullName),
	}
}

// InitializeWorkspace makes sure the working copy exists and its origin points at the repository.
func (b *Bootstrapper) InitializeWorkspace(ctx context.Context, g Git, repo *domain.Repository) (domain.Outcome, error) {
	var initialized bool
	if !g.IsRepository() {
		if err := g.Init(ctx); err != nil {
			return domain.Outcome{}, fmt.Errorf("initializing git repository: %w", err)
		}
		initialized = true
	}

	remoteURL := repo.RemoteURL()
	if _, err := g.GetRemoteURL(ctx, RemoteName); err == nil {
		if err := g.SetRemoteURL(ctx, RemoteName, remoteURL); err != nil {
			return domain.Outcome{}, fmt.Errorf("updating remote %s: %w", RemoteName, err)
		}
		return domain.Info(domain.StepWorkspace, "Updated remote '%s' to %s", RemoteName, remoteURL), nil
	}

	if err := g.AddRemote(ctx, RemoteName, remoteURL); err != nil {
		return domain.Outcome{}, fmt.Errorf("adding remote %s: %w", RemoteName, err)
	}
	if initialized {
		return domain.Info(domain.StepWorkspace, "Initialized git repository and added remote '%s': %s", RemoteName, remoteURL), nil
	}
	return domain.Info(domain.StepWorkspace, "Added remote '%s': %s", RemoteName, remoteURL), nil
}

// ScaffoldFiles writes the starter files. Existing README.md and .gitignore are left alone.
func (b *Bootstrapper) ScaffoldFiles(path, name, description, instructions string) ([]domain.Outcome, error) {
	res, err := scaffold.Write(path, name, description, instructions)
	if err != nil {
		return nil, fmt.Errorf("writing starter files: %w", err)
	}
	outcomes := make([]domain.Outcome, 0, len(res.Created)+len(res.Skipped))
	for _, f := range res.Created {
		outcomes = append(outcomes, domain.Info(domain.StepScaffold, "Created %s", f))
	}
	for _, f := range res.Skipped {
		outcomes = append(outcomes, domain.Info(domain.StepScaffold, "%s already exists, skipped", f))
	}
	return outcomes, nil
}

// CommitReport describes what CommitAndPush did.
type CommitReport struct {
	Committed bool
	Pushed    bool
	Outcomes  []domain.Outcome
}

// CommitAndPush stages everything, commits if anything changed, and pushes branch to origin.
// Failures are downgraded to warnings since the remote repository already exists.
func (b *Bootstrapper) CommitAndPush(ctx context.Context, g Git, branch string) CommitReport {
	if branch == "" {
		branch = DefaultBranch
	}
	var report CommitReport
	commitFailed := func(err error) CommitReport {
		report.Outcomes = append(report.Outcomes, domain.Warning(domain.StepCommit,
			fmt.Sprintf("Warning: Failed to create initial commit: %v", err),
			fmt.Sprintf("You can commit and push manually with: git add . && git commit -m %q && git push -u %s %s", CommitMessage, RemoteName, branch)))
		return report
	}

	if err := g.AddAll(ctx); err != nil {
		return commitFailed(err)
	}
	changed, err := g.HasStagedChanges(ctx)
	if err != nil {
		return commitFailed(err)
	}
	if !changed {
		report.Outcomes = append(report.Outcomes, domain.Info(domain.StepCommit, "No changes to commit"))
		return report
	}

	if err := g.Commit(ctx, CommitMessage); err != nil {
		return commitFailed(err)
	}
	report.Committed = true
	report.Outcomes = append(report.Outcomes, domain.Info(domain.StepCommit, "Created initial commit"))

	if err := b.ensureBranch(ctx, g, branch); err != nil {
		report.Outcomes = append(report.Outcomes, domain.Warning(domain.StepPush,
			fmt.Sprintf("Warning: Failed to switch to branch '%s': %v", branch, err),
			fmt.Sprintf("You can manually push later with: git checkout -b %s && git push -u %s %s", branch, RemoteName, branch)))
		return report
	}

	if err := g.Push(ctx, RemoteName, branch, git.PushOptions{SetUpstream: true}); err != nil {
		report.Outcomes = append(report.Outcomes, domain.Warning(domain.StepPush,
			fmt.Sprintf("Warning: Failed to push to remote: %v", err),
			fmt.Sprintf("You can manually push later with: git push -u %s %s", RemoteName, branch)))
		return report
	}
	report.Pushed = true
	report.Outcomes = append(report.Outcomes, domain.Info(domain.StepPush, "Pushed to remote branch '%s'", branch))
	return report
}

func (b *Bootstrapper) ensureBranch(ctx context.Context, g Git, branch string) error {
	current, err := g.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current == branch {
		return nil
	}
	b.logger.Printf("Switching from %q to %q", current, branch)
	return g.Checkout(ctx, branch, !g.BranchExists(ctx, branch))
}
