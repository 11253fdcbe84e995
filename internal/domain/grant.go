package domain

// DefaultPermission is the permission granted to an invited collaborator.
const DefaultPermission = "push"

// AccessGrant is one of CollaboratorGrant or AppInstallationGrant.
type AccessGrant interface {
	isAccessGrant()
}

// CollaboratorGrant invites a user to the repository.
type CollaboratorGrant struct {
	Username   string
	Permission string
}

// AppInstallationGrant attaches the repository to a GitHub App installation.
// A zero InstallationID means the installation is looked up by AppSlug.
type AppInstallationGrant struct {
	AppSlug        string
	InstallationID int64
}

func (CollaboratorGrant) isAccessGrant()    {}
func (AppInstallationGrant) isAccessGrant() {}
