// Package resolver computes the effective formatter options for a file from
// a base configuration and an ordered list of glob-scoped override rules.
//
// Resolution is a single pass: start from a copy of the base, then for each
// rule whose patterns match the file, shallow-merge the rule's options onto
// the accumulator. Later rules win; pattern specificity plays no part.
//
// A Resolver is immutable once built and safe for concurrent use.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/donaldgifford/fmtconf/internal/languages"
	"github.com/donaldgifford/fmtconf/internal/options"
)

// Rule is one override: options applied to files that match any of Files
// and none of ExcludeFiles.
type Rule struct {
	Files        []string
	ExcludeFiles []string
	Options      options.Options
}

// Policy decides what happens when a rule sets an option that the matched
// file's parser does not recognize.
type Policy int

const (
	// PolicyReject fails resolution with an UnknownOptionError.
	PolicyReject Policy = iota
	// PolicyWarn drops the option, logs a warning and carries on.
	PolicyWarn
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry sets the language registry used to infer parsers. The
// default is languages.Default().
func WithRegistry(reg *languages.Registry) Option {
	return func(r *Resolver) { r.registry = reg }
}

// WithPolicy sets the unknown-option policy. The default is PolicyReject.
func WithPolicy(p Policy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// Resolver holds a validated base configuration and compiled rules.
type Resolver struct {
	base     options.Options
	rules    []compiledRule
	registry *languages.Registry
	policy   Policy
	logger   *log.Logger
}

type compiledRule struct {
	index   int
	rule    Rule
	matcher matcher
}

// New validates base and compiles rules. The base must define every
// required option; rule options must be well typed and every pattern must
// compile. All errors are reported before any file is resolved.
func New(base options.Options, rules []Rule, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		registry: languages.Default(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := options.Validate(base); err != nil {
		return nil, configError(BaseRule, nil, err)
	}

	// Plugins any rule could enable; a parser named anywhere must exist
	// with at least this set.
	reachable := slices.Clone(base.PluginList())
	for _, rule := range rules {
		reachable = append(reachable, rule.Options.PluginList()...)
	}
	if p := base.ParserName(); p != "" && !r.registry.KnownParser(p, base.PluginList()) {
		return nil, r.unknownParser(BaseRule, nil, p, base.PluginList())
	}
	r.warnUnregistered(reachable)

	r.base = base.Clone()
	r.rules = make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		m, err := compileRule(i, rule)
		if err != nil {
			return nil, err
		}
		if err := options.ValidatePartial(rule.Options); err != nil {
			return nil, configError(i, rule.Files, err)
		}
		if p := rule.Options.ParserName(); p != "" && !r.registry.KnownParser(p, reachable) {
			return nil, r.unknownParser(i, rule.Files, p, reachable)
		}
		r.rules = append(r.rules, compiledRule{
			index: i,
			rule: Rule{
				Files:        slices.Clone(rule.Files),
				ExcludeFiles: slices.Clone(rule.ExcludeFiles),
				Options:      rule.Options.Clone(),
			},
			matcher: m,
		})
	}
	return r, nil
}

// Resolve builds a Resolver and resolves a single file. Callers resolving
// many files should build the Resolver once with New.
func Resolve(file string, base options.Options, rules []Rule, opts ...Option) (options.Options, error) {
	r, err := New(base, rules, opts...)
	if err != nil {
		return options.Options{}, err
	}
	return r.Resolve(file)
}

// Resolve returns the effective options for file. The file need not exist;
// matching is purely pattern based on the slash-separated path.
func (r *Resolver) Resolve(file string) (options.Options, error) {
	return r.resolve(file, nil)
}

// Base returns a copy of the validated base configuration.
func (r *Resolver) Base() options.Options {
	return r.base.Clone()
}

// Rules returns a copy of the compiled rules in declared order.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, cr := range r.rules {
		out[i] = Rule{
			Files:        slices.Clone(cr.rule.Files),
			ExcludeFiles: slices.Clone(cr.rule.ExcludeFiles),
			Options:      cr.rule.Options.Clone(),
		}
	}
	return out
}

// ParserFor returns the parser context for file under o: the parser option
// when set, otherwise the parser inferred from the file name using the
// plugins listed in o.
func (r *Resolver) ParserFor(file string, o options.Options) string {
	if p := o.ParserName(); p != "" {
		return p
	}
	return r.registry.Infer(file, o.PluginList())
}

func (r *Resolver) resolve(file string, ex *Explanation) (options.Options, error) {
	if strings.TrimSpace(file) == "" {
		return options.Options{}, ErrEmptyPath
	}
	norm := normalizePath(file)
	base := path.Base(norm)

	var matched []compiledRule
	final := r.base.Clone()
	for _, cr := range r.rules {
		if cr.matcher.match(norm, base) {
			matched = append(matched, cr)
			final.Apply(cr.rule.Options)
		}
	}

	// Scope is checked against the parser the file ends up with. The parser
	// and plugins options are recognized everywhere, so dropping keys below
	// cannot change it.
	parser := r.ParserFor(norm, final)
	if final.Parser != nil && !r.registry.KnownParser(parser, final.PluginList()) {
		return options.Options{}, r.parserError(matched, parser, final.PluginList())
	}

	acc := r.base.Clone()
	ex.init(file, acc)

	for _, cr := range matched {
		set := cr.rule.Options.Clone()
		for _, key := range set.Keys() {
			spec, _ := options.Lookup(string(key))
			if spec.AppliesTo(parser) {
				continue
			}
			err := &UnknownOptionError{
				Rule:   cr.index,
				Files:  cr.rule.Files,
				Key:    string(key),
				Parser: parser,
				Path:   file,
			}
			if r.policy == PolicyReject {
				return options.Options{}, err
			}
			r.logger.Warn("ignoring option", "option", key, "parser", parser, "rule", cr.index, "path", file)
			ex.warn(err)
			set.Unset(key)
		}

		written := acc.Apply(set)
		ex.record(cr, written)
	}

	ex.finish(acc, parser)
	return acc, nil
}

// parserError blames the last matched rule that set the parser, or the base.
func (r *Resolver) parserError(matched []compiledRule, parser string, plugins []string) error {
	for i := len(matched) - 1; i >= 0; i-- {
		if matched[i].rule.Options.Parser != nil {
			return r.unknownParser(matched[i].index, matched[i].rule.Files, parser, plugins)
		}
	}
	return r.unknownParser(BaseRule, nil, parser, plugins)
}

// warnUnregistered logs plugin ids the registry has no languages for.
// Files of such plugins fall back to built-in inference.
func (r *Resolver) warnUnregistered(plugins []string) {
	seen := make(map[string]bool)
	for _, p := range plugins {
		if seen[p] || r.registry.HasPlugin(p) {
			continue
		}
		seen[p] = true
		r.logger.Warn("plugin not registered, its languages will not be inferred", "plugin", p)
	}
}

func configError(rule int, files []string, err error) error {
	var ke *options.KeyError
	key := ""
	if errors.As(err, &ke) {
		key = ke.Key
	}
	return &InvalidConfigError{Rule: rule, Files: files, Key: key, Err: err}
}

func (r *Resolver) unknownParser(rule int, files []string, parser string, plugins []string) error {
	err := fmt.Errorf("%w: parser %q is not provided by any built-in language or listed plugin (available: %s)",
		options.ErrInvalidValue, parser, strings.Join(r.registry.Parsers(plugins), ", "))
	return &InvalidConfigError{Rule: rule, Files: files, Key: string(options.Parser), Err: err}
}
