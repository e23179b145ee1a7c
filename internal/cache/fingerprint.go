package cache

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"

	"github.com/donaldgifford/fmtconf/internal/options"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

// fingerprintInput is the canonical form hashed by Fingerprint. Options
// encode in registry order, so equal configurations hash equally.
type fingerprintInput struct {
	Base  options.Options `json:"base"`
	Rules []ruleInput     `json:"rules"`
}

type ruleInput struct {
	Files        []string        `json:"files"`
	ExcludeFiles []string        `json:"excludeFiles,omitempty"`
	Options      options.Options `json:"options"`
}

// Fingerprint hashes a base configuration and its rules. Any change to a
// value, a pattern or the rule order yields a different fingerprint.
func Fingerprint(base options.Options, rules []resolver.Rule) uint64 {
	in := fingerprintInput{Base: base, Rules: make([]ruleInput, len(rules))}
	for i, r := range rules {
		in.Rules[i] = ruleInput{Files: r.Files, ExcludeFiles: r.ExcludeFiles, Options: r.Options}
	}

	d := xxhash.New()
	// Encoding plain option records cannot fail.
	_ = json.NewEncoder(d).Encode(in)
	return d.Sum64()
}

// FingerprintOf returns the fingerprint of a compiled resolver.
func FingerprintOf(r *resolver.Resolver) uint64 {
	return Fingerprint(r.Base(), r.Rules())
}
