package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Server configuration
	Port         string
	APIAccessKey string

	// Import configuration
	DefaultAuthor  string
	CreateNewUsers bool
	DownloadMedia  bool
	ImportFile     string
	SettingsFile   string

	// Media configuration
	MediaDir       string
	FetchTimeout   int
	FetchRateLimit float64

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}

// Settings mirrors the import options that can be overridden per run,
// either from a settings file or per request.
type Settings struct {
	CreateNewUsers *bool `yaml:"create_new_users"`
	DownloadMedia  *bool `yaml:"download_media"`
}
