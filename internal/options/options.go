// Package options defines the closed set of formatter options that a
// configuration document may set.
//
// Options is a tagged record: every option has its own pointer field and a
// nil field means "unset". The same type describes a complete base
// configuration, the partial options carried by an override rule, and the
// effective configuration for one file. The per-key behaviour (kind, allowed
// values, whether the base must define it, and which parsers recognize it)
// lives in the table returned by Specs.
package options

import "slices"

// TrailingComma controls trailing commas in multi-line literals.
type TrailingComma string

// Trailing comma modes.
const (
	TrailingCommaNone TrailingComma = "none"
	TrailingCommaES5  TrailingComma = "es5"
	TrailingCommaAll  TrailingComma = "all"
)

// QuoteProps controls quoting of object property names.
type QuoteProps string

// Property quoting modes.
const (
	QuotePropsAsNeeded   QuoteProps = "as-needed"
	QuotePropsConsistent QuoteProps = "consistent"
	QuotePropsPreserve   QuoteProps = "preserve"
)

// ArrowParens controls parentheses around a sole arrow function parameter.
type ArrowParens string

// Arrow parenthesis modes.
const (
	ArrowParensAlways ArrowParens = "always"
	ArrowParensAvoid  ArrowParens = "avoid"
)

// EndOfLine is the line ending written by the formatter.
type EndOfLine string

// Line ending modes.
const (
	EndOfLineLF   EndOfLine = "lf"
	EndOfLineCRLF EndOfLine = "crlf"
	EndOfLineCR   EndOfLine = "cr"
	EndOfLineAuto EndOfLine = "auto"
)

// ProseWrap controls wrapping of prose in markup documents.
type ProseWrap string

// Prose wrapping modes.
const (
	ProseWrapAlways   ProseWrap = "always"
	ProseWrapNever    ProseWrap = "never"
	ProseWrapPreserve ProseWrap = "preserve"
)

// HTMLWhitespaceSensitivity controls how significant whitespace in markup is
// treated.
type HTMLWhitespaceSensitivity string

// HTML whitespace modes.
const (
	HTMLWhitespaceCSS    HTMLWhitespaceSensitivity = "css"
	HTMLWhitespaceStrict HTMLWhitespaceSensitivity = "strict"
	HTMLWhitespaceIgnore HTMLWhitespaceSensitivity = "ignore"
)

// EmbeddedLanguageFormatting controls formatting of code embedded in other
// languages.
type EmbeddedLanguageFormatting string

// Embedded formatting modes.
const (
	EmbeddedAuto EmbeddedLanguageFormatting = "auto"
	EmbeddedOff  EmbeddedLanguageFormatting = "off"
)

// Options is the full option record. Field order is the canonical key order
// used for rendering and fingerprinting.
type Options struct {
	PrintWidth                 *int                        `json:"printWidth,omitempty" yaml:"printWidth,omitempty" toml:"printWidth,omitempty"`
	TabWidth                   *int                        `json:"tabWidth,omitempty" yaml:"tabWidth,omitempty" toml:"tabWidth,omitempty"`
	UseTabs                    *bool                       `json:"useTabs,omitempty" yaml:"useTabs,omitempty" toml:"useTabs,omitempty"`
	Semi                       *bool                       `json:"semi,omitempty" yaml:"semi,omitempty" toml:"semi,omitempty"`
	SingleQuote                *bool                       `json:"singleQuote,omitempty" yaml:"singleQuote,omitempty" toml:"singleQuote,omitempty"`
	JSXSingleQuote             *bool                       `json:"jsxSingleQuote,omitempty" yaml:"jsxSingleQuote,omitempty" toml:"jsxSingleQuote,omitempty"`
	QuoteProps                 *QuoteProps                 `json:"quoteProps,omitempty" yaml:"quoteProps,omitempty" toml:"quoteProps,omitempty"`
	TrailingComma              *TrailingComma              `json:"trailingComma,omitempty" yaml:"trailingComma,omitempty" toml:"trailingComma,omitempty"`
	BracketSpacing             *bool                       `json:"bracketSpacing,omitempty" yaml:"bracketSpacing,omitempty" toml:"bracketSpacing,omitempty"`
	BracketSameLine            *bool                       `json:"bracketSameLine,omitempty" yaml:"bracketSameLine,omitempty" toml:"bracketSameLine,omitempty"`
	ArrowParens                *ArrowParens                `json:"arrowParens,omitempty" yaml:"arrowParens,omitempty" toml:"arrowParens,omitempty"`
	EndOfLine                  *EndOfLine                  `json:"endOfLine,omitempty" yaml:"endOfLine,omitempty" toml:"endOfLine,omitempty"`
	EmbeddedLanguageFormatting *EmbeddedLanguageFormatting `json:"embeddedLanguageFormatting,omitempty" yaml:"embeddedLanguageFormatting,omitempty" toml:"embeddedLanguageFormatting,omitempty"`
	Plugins                    *[]string                   `json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
	Parser                     *string                     `json:"parser,omitempty" yaml:"parser,omitempty" toml:"parser,omitempty"`
	ProseWrap                  *ProseWrap                  `json:"proseWrap,omitempty" yaml:"proseWrap,omitempty" toml:"proseWrap,omitempty"`
	HTMLWhitespaceSensitivity  *HTMLWhitespaceSensitivity  `json:"htmlWhitespaceSensitivity,omitempty" yaml:"htmlWhitespaceSensitivity,omitempty" toml:"htmlWhitespaceSensitivity,omitempty"`
	VueIndentScriptAndStyle    *bool                       `json:"vueIndentScriptAndStyle,omitempty" yaml:"vueIndentScriptAndStyle,omitempty" toml:"vueIndentScriptAndStyle,omitempty"`
	SingleAttributePerLine     *bool                       `json:"singleAttributePerLine,omitempty" yaml:"singleAttributePerLine,omitempty" toml:"singleAttributePerLine,omitempty"`
}

// Field is one set option with its value, as returned by Options.Fields.
type Field struct {
	Key   Key
	Value any
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	var out Options
	out.Apply(o)
	return out
}

// Apply shallow-merges every key set in src onto o, replacing any previous
// value for that key. It returns the keys that were written, in canonical
// order.
func (o *Options) Apply(src Options) []Key {
	var written []Key
	for _, s := range specs {
		if !s.field.isSet(&src) {
			continue
		}
		s.field.copy(o, &src)
		written = append(written, s.Key)
	}
	return written
}

// Keys returns the keys set in o, in canonical order.
func (o Options) Keys() []Key {
	var keys []Key
	for _, s := range specs {
		if s.field.isSet(&o) {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// Has reports whether key is set in o.
func (o Options) Has(key Key) bool {
	s, ok := specByKey[key]
	return ok && s.field.isSet(&o)
}

// Get returns the value of key and whether it is set. Enum values are
// returned as their named string type and the plugin list as a []string.
func (o Options) Get(key Key) (any, bool) {
	s, ok := specByKey[key]
	if !ok || !s.field.isSet(&o) {
		return nil, false
	}
	return s.field.get(&o), true
}

// Unset clears key in o.
func (o *Options) Unset(key Key) {
	if s, ok := specByKey[key]; ok {
		s.field.clear(o)
	}
}

// Fields returns the set options in canonical order.
func (o Options) Fields() []Field {
	var fields []Field
	for _, s := range specs {
		if s.field.isSet(&o) {
			fields = append(fields, Field{Key: s.Key, Value: s.field.get(&o)})
		}
	}
	return fields
}

// Equal reports whether a and b set the same keys to the same values.
func Equal(a, b Options) bool {
	for _, s := range specs {
		sa, sb := s.field.isSet(&a), s.field.isSet(&b)
		if sa != sb {
			return false
		}
		if !sa {
			continue
		}
		va, vb := s.field.get(&a), s.field.get(&b)
		if s.Kind == KindList {
			if !slices.Equal(va.([]string), vb.([]string)) {
				return false
			}
			continue
		}
		if va != vb {
			return false
		}
	}
	return true
}

// ParserName returns the parser option, or "" when unset.
func (o Options) ParserName() string {
	if o.Parser == nil {
		return ""
	}
	return *o.Parser
}

// PluginList returns the plugin option, or nil when unset.
func (o Options) PluginList() []string {
	if o.Plugins == nil {
		return nil
	}
	return *o.Plugins
}

// Ptr returns a pointer to v. It keeps literal option records short.
func Ptr[T any](v T) *T {
	return &v
}
