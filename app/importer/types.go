package importer

// Options control the optional behaviors of one import run.
type Options struct {
	// CreateNewUsers enables creation of users for feed authors that
	// do not exist yet.
	CreateNewUsers bool
	// DownloadMedia enables fetching remote media and storing it
	// locally instead of referencing the original location.
	DownloadMedia bool
}

// UserStub summarizes one resolved author. GeneratedPassword is only
// set for users created during the run and is returned to the caller
// exactly once, for manual redistribution.
type UserStub struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	AccessLevel       string `json:"access_level"`
	Created           bool   `json:"created"`
	GeneratedPassword string `json:"generated_password,omitempty"`
}

// TopicStub maps a topic display name to its persisted identity.
type TopicStub struct {
	ID   string
	Name string
}
