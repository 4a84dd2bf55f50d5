package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration. File names are relative to the
// archive directory unless absolute.
type Config struct {
	// LedgerFile is the fixed-column ledger, encoded in ISO-8859-1.
	LedgerFile string `json:"ledger_file,omitempty"`

	// XMLFile is the canonical XML archive.
	XMLFile string `json:"xml_file,omitempty"`

	// ReformattedXMLFile receives the output of reformat-xml.
	ReformattedXMLFile string `json:"reformatted_xml_file,omitempty"`

	// LedgerOutFile receives the ledger regenerated from the XML archive.
	LedgerOutFile string `json:"ledger_out_file,omitempty"`

	// HTMLFile receives the rendered listing.
	HTMLFile string `json:"html_file,omitempty"`

	SpeakerCountsFile string `json:"speaker_counts_file,omitempty"`
	SpeakerDatesFile  string `json:"speaker_dates_file,omitempty"`

	// TitleDir holds the <number>.title files for titles too long for the
	// ledger. Empty means the archive directory.
	TitleDir string `json:"title_dir,omitempty"`

	// ReadmeFile supplies the introduction of the HTML listing.
	ReadmeFile string `json:"readme_file,omitempty"`

	// SpeakerLinksFile maps speaker IDs to home pages. It may be absent.
	SpeakerLinksFile string `json:"speaker_links_file,omitempty"`

	SiteTitle string `json:"site_title,omitempty"`
	SourceURL string `json:"source_url,omitempty"`

	// Exclude lists meeting types left out of speaker statistics.
	Exclude []string `json:"exclude,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LedgerFile:         "meetings.txt",
		XMLFile:            "meetings.xml",
		ReformattedXMLFile: "meetings-new.xml",
		LedgerOutFile:      "meetings-new.txt",
		HTMLFile:           "meetings.html",
		SpeakerCountsFile:  "speaker-counts.txt",
		SpeakerDatesFile:   "speaker-dates.txt",
		ReadmeFile:         "README",
		SpeakerLinksFile:   "speaker-links.toml",
		SiteTitle:          "Trinity Mathematical Society meetings",
		SourceURL:          "https://github.com/jsm28/tms-meetings",
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	return LoadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.meetings) and archive
// (.meetings) directories. The archive config is found by walking upward from
// startDir to the nearest .meetings/config.json. Archive config takes
// precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .meetings/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".meetings", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func LoadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	pick := func(b, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return b
	}

	return &Config{
		LedgerFile:         pick(base.LedgerFile, overlay.LedgerFile),
		XMLFile:            pick(base.XMLFile, overlay.XMLFile),
		ReformattedXMLFile: pick(base.ReformattedXMLFile, overlay.ReformattedXMLFile),
		LedgerOutFile:      pick(base.LedgerOutFile, overlay.LedgerOutFile),
		HTMLFile:           pick(base.HTMLFile, overlay.HTMLFile),
		SpeakerCountsFile:  pick(base.SpeakerCountsFile, overlay.SpeakerCountsFile),
		SpeakerDatesFile:   pick(base.SpeakerDatesFile, overlay.SpeakerDatesFile),
		TitleDir:           pick(base.TitleDir, overlay.TitleDir),
		ReadmeFile:         pick(base.ReadmeFile, overlay.ReadmeFile),
		SpeakerLinksFile:   pick(base.SpeakerLinksFile, overlay.SpeakerLinksFile),
		SiteTitle:          pick(base.SiteTitle, overlay.SiteTitle),
		SourceURL:          pick(base.SourceURL, overlay.SourceURL),
		Exclude:            mergeStringSlice(base.Exclude, overlay.Exclude),
		LogLevel:           pick(base.LogLevel, overlay.LogLevel),
		LogFormat:          pick(base.LogFormat, overlay.LogFormat),
	}
}

// Resolve returns a copy with every file name made relative to dir.
// Absolute names are kept. An empty TitleDir becomes dir itself.
func (c *Config) Resolve(dir string) *Config {
	abs := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dir, name)
	}

	out := *c
	out.LedgerFile = abs(c.LedgerFile)
	out.XMLFile = abs(c.XMLFile)
	out.ReformattedXMLFile = abs(c.ReformattedXMLFile)
	out.LedgerOutFile = abs(c.LedgerOutFile)
	out.HTMLFile = abs(c.HTMLFile)
	out.SpeakerCountsFile = abs(c.SpeakerCountsFile)
	out.SpeakerDatesFile = abs(c.SpeakerDatesFile)
	out.ReadmeFile = abs(c.ReadmeFile)
	out.SpeakerLinksFile = abs(c.SpeakerLinksFile)
	out.TitleDir = abs(c.TitleDir)
	if out.TitleDir == "" {
		out.TitleDir = dir
	}
	return &out
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
