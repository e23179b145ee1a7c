// Package config discovers, parses and validates fmtconf configuration
// documents.
//
// A document uses the prettierrc layout: top-level keys are base options
// and the optional "overrides" list holds glob-scoped rules. Documents may
// be written in YAML, JSON or TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/donaldgifford/fmtconf/internal/options"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

// Document is a parsed configuration document. Base always holds every
// required option: keys missing from the file keep their defaults.
type Document struct {
	// Path is the file the document was read from, or "" for the built-in
	// defaults.
	Path      string
	Base      options.Options
	Overrides []resolver.Rule
}

// DefaultDocument returns a document with default options and no rules.
func DefaultDocument() *Document {
	return &Document{Base: options.Defaults()}
}

// Dir returns the directory that rule patterns are relative to: the
// directory holding the config file, or the working directory for the
// built-in defaults.
func (d *Document) Dir() (string, error) {
	if d.Path != "" {
		return filepath.Dir(d.Path), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

// Rel returns file relative to Dir, with forward slashes, ready to be
// matched against rule patterns.
func (d *Document) Rel(file string) (string, error) {
	dir, err := d.Dir()
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", file, err)
	}
	rel, err := filepath.Rel(absDir, absFile)
	if err != nil {
		return "", fmt.Errorf("relating %s to %s: %w", file, absDir, err)
	}
	return filepath.ToSlash(rel), nil
}

// Resolver compiles the document into a resolver.
func (d *Document) Resolver(opts ...resolver.Option) (*resolver.Resolver, error) {
	r, err := resolver.New(d.Base, d.Overrides, opts...)
	if err != nil {
		if d.Path != "" {
			return nil, fmt.Errorf("%s: %w", d.Path, err)
		}
		return nil, err
	}
	return r, nil
}
