package runner

import (
	"path/filepath"

	"github.com/donaldgifford/fmtconf/internal/cache"
	"github.com/donaldgifford/fmtconf/internal/config"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

// session resolves files for one run. Each configuration document is loaded
// and compiled once, however many files it governs.
type session struct {
	opts    *Options
	cache   *cache.Cache
	configs map[string]*compiled
}

type compiled struct {
	doc         *config.Document
	res         *resolver.Resolver
	fingerprint uint64
}

func (c *compiled) name() string {
	if c.doc.Path == "" {
		return "defaults"
	}
	return c.doc.Path
}

func newSession(opts *Options) *session {
	return &session{
		opts:    opts,
		cache:   cache.New(),
		configs: make(map[string]*compiled),
	}
}

func (s *session) policy() resolver.Policy {
	if s.opts.Lenient {
		return resolver.PolicyWarn
	}
	return resolver.PolicyReject
}

// configForDir returns the compiled configuration governing files in dir.
func (s *session) configForDir(dir string) (*compiled, error) {
	path, err := config.Locate(dir, s.opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if c, ok := s.configs[path]; ok {
		return c, nil
	}

	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	res, err := doc.Resolver(
		resolver.WithPolicy(s.policy()),
		resolver.WithLogger(s.opts.Logger),
	)
	if err != nil {
		return nil, err
	}

	c := &compiled{doc: doc, res: res, fingerprint: cache.FingerprintOf(res)}
	s.configs[path] = c
	s.opts.Logger.Debug("loaded config", "path", c.name(), "rules", len(doc.Overrides))
	return c, nil
}

func (s *session) resolve(file string) (Result, error) {
	c, err := s.configForDir(filepath.Dir(file))
	if err != nil {
		return Result{}, err
	}
	rel, err := c.doc.Rel(file)
	if err != nil {
		return Result{}, err
	}
	s.opts.Logger.Debug("resolving", "path", file, "match", rel, "config", c.name())

	if s.opts.Explain {
		ex, err := c.res.Explain(rel)
		if err != nil {
			return Result{}, err
		}
		return explainResult(file, ex), nil
	}

	o, err := s.cache.Resolve(c.res, c.fingerprint, rel)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: file, Parser: c.res.ParserFor(rel, o), Options: o}, nil
}
