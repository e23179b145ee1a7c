package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	".fmtconfrc",
	".fmtconfrc.yaml",
	".fmtconfrc.yml",
	".fmtconfrc.json",
	".fmtconfrc.toml",
	"fmtconf.yaml",
	"fmtconf.yml",
}

// FileNames returns the config file names in search order.
func FileNames() []string {
	out := make([]string, len(configFileNames))
	copy(out, configFileNames)
	return out
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindUp runs Discover in start and then in each parent directory up to
// the filesystem root. It returns an empty string if no directory holds a
// config file.
func FindUp(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		if path := Discover(dir); path != "" {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Locate returns the path of the config document governing files in dir.
// A non-empty configPath wins; otherwise the nearest config file at or
// above dir is used. It returns an empty string if none is found.
func Locate(dir, configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return FindUp(dir)
}

// Load reads and parses the config document at path. An empty path yields
// DefaultDocument.
//
// Partial documents are supported: base options not specified in the file
// retain their default values.
func Load(path string) (*Document, error) {
	if path == "" {
		return DefaultDocument(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and parses the document at path. A missing file is an
// error.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	doc, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	doc.Path = abs
	return doc, nil
}

// Format is the syntax of a config document.
type Format string

// Supported document formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the document format from the file extension. Files
// without a known extension are read as YAML, which also accepts JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}
