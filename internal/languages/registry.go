// Package languages maps file paths to the parser that handles them.
//
// Built-in languages are registered at init. Plugins contribute further
// languages; a plugin's languages only take part in inference when the
// plugin is listed in the effective configuration.
package languages

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
)

// Language binds file names and extensions to a parser.
type Language struct {
	Name   string
	Parser string
	// Extensions are matched against the end of the base name, including
	// the leading dot (".ts", ".component.html").
	Extensions []string
	// Filenames are exact base names ("Dockerfile", ".bashrc").
	Filenames []string
}

// Plugin is a named bundle of languages.
type Plugin struct {
	Name      string
	Languages []Language
}

// ErrContract is wrapped by errors returned when a language or plugin does
// not satisfy the registration contract.
var ErrContract = errors.New("registration contract violated")

// Registry holds built-in languages and known plugins.
type Registry struct {
	builtin []Language
	plugins map[string]Plugin
	parsers map[string]string // parser name -> owner ("" for built-in)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		parsers: make(map[string]string),
	}
}

// RegisterLanguage adds a built-in language. Built-in languages may omit
// extensions and file names; such parsers are only selected through the
// parser option.
func (r *Registry) RegisterLanguage(l Language) error {
	if err := checkLanguage(l, false); err != nil {
		return err
	}
	if owner, ok := r.parsers[l.Parser]; ok {
		return contractErr("parser %q already registered%s", l.Parser, ownedBy(owner))
	}
	r.parsers[l.Parser] = ""
	r.builtin = append(r.builtin, normalize(l))
	return nil
}

// RegisterPlugin adds a plugin. Each of its languages must name a parser
// not provided by any other language and must match at least one extension
// or file name.
func (r *Registry) RegisterPlugin(p Plugin) error {
	if strings.TrimSpace(p.Name) == "" {
		return contractErr("plugin name is empty")
	}
	if _, ok := r.plugins[p.Name]; ok {
		return contractErr("plugin %q already registered", p.Name)
	}
	if len(p.Languages) == 0 {
		return contractErr("plugin %q declares no languages", p.Name)
	}

	seen := make(map[string]bool)
	langs := make([]Language, 0, len(p.Languages))
	for _, l := range p.Languages {
		if err := checkLanguage(l, true); err != nil {
			return fmt.Errorf("plugin %q: %w", p.Name, err)
		}
		if owner, ok := r.parsers[l.Parser]; ok || seen[l.Parser] {
			return contractErr("plugin %q: parser %q already registered%s", p.Name, l.Parser, ownedBy(owner))
		}
		seen[l.Parser] = true
		langs = append(langs, normalize(l))
	}

	for parser := range seen {
		r.parsers[parser] = p.Name
	}
	r.plugins[p.Name] = Plugin{Name: p.Name, Languages: langs}
	return nil
}

// HasPlugin reports whether a plugin with the given name is registered.
func (r *Registry) HasPlugin(name string) bool {
	_, ok := r.plugins[name]
	return ok
}

// KnownParser reports whether parser is provided by a built-in language or
// by one of the listed plugins.
func (r *Registry) KnownParser(parser string, plugins []string) bool {
	owner, ok := r.parsers[parser]
	if !ok {
		return false
	}
	return owner == "" || slices.Contains(plugins, owner)
}

// Parsers returns the parser names available with the listed plugins, in
// registration order.
func (r *Registry) Parsers(plugins []string) []string {
	var out []string
	for _, l := range r.candidates(plugins) {
		if !slices.Contains(out, l.Parser) {
			out = append(out, l.Parser)
		}
	}
	return out
}

// Infer returns the parser for file, or "" when no language matches. An
// exact file name match wins over an extension match, and a longer
// extension wins over a shorter one. Languages from later plugins take
// precedence over earlier plugins, and plugins over built-ins.
func (r *Registry) Infer(file string, plugins []string) string {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	lower := strings.ToLower(base)

	var (
		best    string
		bestLen int
	)
	for _, l := range r.candidates(plugins) {
		if slices.Contains(l.Filenames, base) {
			return l.Parser
		}
		for _, ext := range l.Extensions {
			if len(ext) > bestLen && strings.HasSuffix(lower, ext) {
				best, bestLen = l.Parser, len(ext)
			}
		}
	}
	return best
}

// candidates lists languages in precedence order: listed plugins from last
// to first, then built-ins.
func (r *Registry) candidates(plugins []string) []Language {
	var out []Language
	for i := len(plugins) - 1; i >= 0; i-- {
		if p, ok := r.plugins[plugins[i]]; ok {
			out = append(out, p.Languages...)
		}
	}
	return append(out, r.builtin...)
}

func checkLanguage(l Language, needMatchers bool) error {
	if strings.TrimSpace(l.Parser) == "" {
		return contractErr("language %q has no parser", l.Name)
	}
	if needMatchers && len(l.Extensions) == 0 && len(l.Filenames) == 0 {
		return contractErr("language %q matches no files", l.Name)
	}
	for _, ext := range l.Extensions {
		if len(ext) < 2 || ext[0] != '.' || strings.Contains(ext, "/") {
			return contractErr("language %q: bad extension %q", l.Name, ext)
		}
	}
	for _, name := range l.Filenames {
		if name == "" || strings.Contains(name, "/") {
			return contractErr("language %q: bad file name %q", l.Name, name)
		}
	}
	return nil
}

func normalize(l Language) Language {
	exts := make([]string, len(l.Extensions))
	for i, ext := range l.Extensions {
		exts[i] = strings.ToLower(ext)
	}
	l.Extensions = exts
	l.Filenames = slices.Clone(l.Filenames)
	return l
}

func contractErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContract, fmt.Sprintf(format, args...))
}

func ownedBy(owner string) string {
	if owner == "" {
		return ""
	}
	return fmt.Sprintf(" by plugin %q", owner)
}
