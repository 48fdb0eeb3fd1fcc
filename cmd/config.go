package cmd

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/SergeiSkv/AbbrFix/analyzer"
)

const (
	formatText = "text"
	formatJSON = "json"

	ignoreFileName = ".abbrfixignore"
)

// Config represents the configuration for the linter
type Config struct {
	// Rule set, strategy and rename table
	analyzer.Settings `yaml:",inline"`

	// Path configuration
	Paths PathsConfig `yaml:"paths" json:"paths" toml:"paths"`

	// Output configuration
	Output OutputConfig `yaml:"output" json:"output" toml:"output"`
}

type PathsConfig struct {
	Exclude []string `yaml:"exclude" json:"exclude" toml:"exclude"` // Paths to exclude from reports and fixes
}

type OutputConfig struct {
	Format    string `yaml:"format" json:"format" toml:"format"`          // "text" or "json"
	MaxIssues int    `yaml:"maxIssues" json:"maxIssues" toml:"maxIssues"` // Maximum issues to report (0 = unlimited)
}

// DefaultConfig returns the default configuration. It flags every abbreviation and uses the
// built-in rename table.
func DefaultConfig() *Config {
	config := &Config{}
	config.Strategy = "span"
	config.AbbreviationsToSkip = []string{}

	config.Paths.Exclude = []string{
		"vendor",
		".git",
		"testdata",
		"_examples",
	}

	config.Output.Format = formatText
	config.Output.MaxIssues = 0

	return config
}

var configNames = []string{
	".abbrfix.yaml",
	".abbrfix.yml",
	".abbrfix.json",
	".abbrfix.toml",
	"abbrfix.yaml",
	"abbrfix.yml",
	"abbrfix.json",
	"abbrfix.toml",
}

// findConfigPath searches for a config file in common locations
func findConfigPath() string {
	for _, loc := range configNames {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}

	for _, loc := range configNames {
		configPath := filepath.Join(home, ".config", "abbrfix", loc)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// LoadConfig loads configuration from path. An empty path searches the usual locations and
// falls back to DefaultConfig; a named file that does not exist is an error.
func LoadConfig(path string) (*Config, error) {
	resolvedPath := resolveConfigPath(path)
	if resolvedPath == "" {
		config := DefaultConfig()
		mergeIgnorePatterns(config, ignoreFileName)
		return config, nil
	}

	file, err := os.Open(resolvedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Newf("config file does not exist: %s", resolvedPath),
				"run `abbrfix init` to create one, or drop --config to use the defaults",
			)
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", resolvedPath)
	}
	defer func() { _ = file.Close() }()

	config, err := decodeConfigFile(file, resolvedPath)
	if err != nil {
		return nil, err
	}
	if _, err := config.Build(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", resolvedPath)
	}

	mergeIgnorePatterns(config, ignoreFileName)
	return config, nil
}

func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	return findConfigPath()
}

// decodeConfigFile decodes over DefaultConfig, so keys missing from the file keep their
// defaults.
func decodeConfigFile(r io.ReadSeeker, path string) (*Config, error) {
	config := DefaultConfig()
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.NewDecoder(r).Decode(config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse JSON config %s", path)
		}
	case ".yaml", ".yml":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read YAML config %s", path)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse YAML config %s", path)
		}
	case ".toml":
		if _, err := toml.NewDecoder(r).Decode(config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse TOML config %s", path)
		}
	default:
		if err := tryAllFormats(r, config); err != nil {
			return nil, errors.Wrapf(err, "config %s", path)
		}
	}

	return config, nil
}

// tryAllFormats decodes JSON, then YAML, then TOML.
func tryAllFormats(r io.ReadSeeker, config *Config) error {
	if err := json.NewDecoder(r).Decode(config); err == nil {
		return nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "failed to reset file position")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	*config = *DefaultConfig()
	if err := yaml.Unmarshal(data, config); err == nil {
		return nil
	}
	*config = *DefaultConfig()
	if _, err := toml.Decode(string(data), config); err != nil {
		return errors.Wrap(err, "failed to parse config (tried JSON, YAML and TOML)")
	}
	return nil
}

func mergeIgnorePatterns(cfg *Config, ignorePath string) {
	patterns, err := loadIgnoreFile(ignorePath)
	if err != nil {
		return
	}
	cfg.Paths.Exclude = append(cfg.Paths.Exclude, patterns...)
}

// loadIgnoreFile loads patterns from an ignore file like .gitignore
func loadIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	lines, err := readLines(file)
	if err != nil {
		return nil, err
	}

	return parseIgnoreLines(lines), nil
}

func readLines(r io.Reader) ([]string, error) {
	const maxLineSize = 1024 * 1024
	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseIgnoreLines(lines []string) []string {
	patterns := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimSuffix(line, "/")
		line = strings.TrimSuffix(line, "*")
		line = strings.TrimPrefix(line, "**/")

		patterns = append(patterns, line)
	}

	return patterns
}
