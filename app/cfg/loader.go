package cfg

import (
	"cmp"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./blogger-import.db" description:"Path to the SQLite content store"`

	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"Access key required by the import endpoint (optional)"`

	// Import configuration
	DefaultAuthor  string `long:"default-author" env:"DEFAULT_AUTHOR" default:"admin" description:"Username credited for entries whose author cannot be resolved"`
	CreateNewUsers bool   `long:"create-new-users" env:"IMPORT_CREATE_NEW_USERS" description:"Create missing users for feed authors"`
	DownloadMedia  bool   `long:"download-media" env:"IMPORT_DOWNLOAD_MEDIA" description:"Download remote media and store it locally"`
	ImportFile     string `long:"import-file" env:"IMPORT_FILE" description:"Import a Blogger XML export from a file and exit"`
	SettingsFile   string `long:"settings-file" env:"SETTINGS_FILE" description:"YAML file overriding the import options"`

	// Media configuration
	MediaDir       string  `long:"media-dir" env:"MEDIA_DIR" default:"./media" description:"Directory for downloaded media files"`
	FetchTimeout   int     `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-fetch timeout for remote media in seconds"`
	FetchRateLimit float64 `long:"fetch-rate-limit" env:"FETCH_RATE_LIMIT" default:"5" description:"Remote media fetches per second"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Blogger Import/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		DefaultAuthor:  raw.DefaultAuthor,
		CreateNewUsers: raw.CreateNewUsers,
		DownloadMedia:  raw.DownloadMedia,
		ImportFile:     raw.ImportFile,
		SettingsFile:   raw.SettingsFile,
		MediaDir:       raw.MediaDir,
		FetchTimeout:   raw.FetchTimeout,
		FetchRateLimit: raw.FetchRateLimit,
		UserAgent:      raw.UserAgent,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if cfg.SettingsFile != "" {
		if err := applySettingsFile(cfg, cfg.SettingsFile); err != nil {
			return nil, fmt.Errorf("failed to load settings file: %w", err)
		}
	}

	return cfg, nil
}

// applySettingsFile overlays the import options from a YAML settings file.
// Keys absent from the file leave the flag/env values untouched.
func applySettingsFile(cfg *Cfg, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if settings.CreateNewUsers != nil {
		cfg.CreateNewUsers = *settings.CreateNewUsers
	}
	if settings.DownloadMedia != nil {
		cfg.DownloadMedia = *settings.DownloadMedia
	}

	return nil
}
