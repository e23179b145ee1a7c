package options

import "slices"

// Key is the document name of an option.
type Key string

// Option keys, in canonical order.
const (
	PrintWidth                Key = "printWidth"
	TabWidth                  Key = "tabWidth"
	UseTabs                   Key = "useTabs"
	Semi                      Key = "semi"
	SingleQuote               Key = "singleQuote"
	JSXSingleQuote            Key = "jsxSingleQuote"
	QuotePropsKey             Key = "quoteProps"
	TrailingCommaKey          Key = "trailingComma"
	BracketSpacing            Key = "bracketSpacing"
	BracketSameLine           Key = "bracketSameLine"
	ArrowParensKey            Key = "arrowParens"
	EndOfLineKey              Key = "endOfLine"
	EmbeddedLanguageFormatKey Key = "embeddedLanguageFormatting"
	Plugins                   Key = "plugins"
	Parser                    Key = "parser"
	ProseWrapKey              Key = "proseWrap"
	HTMLWhitespaceKey         Key = "htmlWhitespaceSensitivity"
	VueIndentScriptAndStyle   Key = "vueIndentScriptAndStyle"
	SingleAttributePerLine    Key = "singleAttributePerLine"
)

// Kind is the value type of an option.
type Kind int

// Option kinds.
const (
	KindInt Kind = iota
	KindBool
	KindEnum
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	case KindList:
		return "list of strings"
	default:
		return "unknown"
	}
}

// Parser families used to scope options.
var (
	JSParsers   = []string{"babel", "babel-ts", "flow", "typescript", "acorn", "espree", "meriyah"}
	JSONParsers = []string{"json", "json5", "jsonc"}
	HTMLParsers = []string{"html", "vue", "angular", "lwc"}
	MarkParsers = []string{"markdown", "mdx"}
)

// Spec describes one option.
type Spec struct {
	Key Key
	// Kind is the value type.
	Kind Kind
	// Values lists the allowed values of an enum option.
	Values []string
	// Required options must be defined by a base configuration.
	Required bool
	// Scope lists the parsers that recognize the option. A nil scope means
	// every parser, including files with no parser at all.
	Scope []string

	field field
}

// AppliesTo reports whether the option is recognized by parser. An empty
// parser name means the file has no parser context.
func (s Spec) AppliesTo(parser string) bool {
	if s.Global() {
		return true
	}
	return parser != "" && slices.Contains(s.Scope, parser)
}

// Global reports whether the option applies to every parser.
func (s Spec) Global() bool {
	return s.Scope == nil
}

var specs = []Spec{
	{
		Key: PrintWidth, Kind: KindInt, Required: true,
		field: ptrField(func(o *Options) **int { return &o.PrintWidth }, positiveInt),
	},
	{
		Key: TabWidth, Kind: KindInt, Required: true,
		field: ptrField(func(o *Options) **int { return &o.TabWidth }, positiveInt),
	},
	{
		Key: UseTabs, Kind: KindBool, Required: true,
		field: ptrField(func(o *Options) **bool { return &o.UseTabs }, toBool),
	},
	{
		Key: Semi, Kind: KindBool, Required: true,
		Scope: concat(JSParsers, []string{"vue"}),
		field: ptrField(func(o *Options) **bool { return &o.Semi }, toBool),
	},
	{
		Key: SingleQuote, Kind: KindBool, Required: true,
		field: ptrField(func(o *Options) **bool { return &o.SingleQuote }, toBool),
	},
	{
		Key: JSXSingleQuote, Kind: KindBool, Required: true,
		Scope: JSParsers,
		field: ptrField(func(o *Options) **bool { return &o.JSXSingleQuote }, toBool),
	},
	enumSpec(QuotePropsKey, true, concat(JSParsers, []string{"vue"}),
		func(o *Options) **QuoteProps { return &o.QuoteProps },
		QuotePropsAsNeeded, QuotePropsConsistent, QuotePropsPreserve),
	enumSpec(TrailingCommaKey, true, concat(JSParsers, []string{"vue"}),
		func(o *Options) **TrailingComma { return &o.TrailingComma },
		TrailingCommaNone, TrailingCommaES5, TrailingCommaAll),
	{
		Key: BracketSpacing, Kind: KindBool, Required: true,
		Scope: concat(JSParsers, JSONParsers, []string{"yaml", "vue"}),
		field: ptrField(func(o *Options) **bool { return &o.BracketSpacing }, toBool),
	},
	{
		Key: BracketSameLine, Kind: KindBool, Required: true,
		Scope: concat(JSParsers, HTMLParsers),
		field: ptrField(func(o *Options) **bool { return &o.BracketSameLine }, toBool),
	},
	enumSpec(ArrowParensKey, true, concat(JSParsers, []string{"vue"}),
		func(o *Options) **ArrowParens { return &o.ArrowParens },
		ArrowParensAlways, ArrowParensAvoid),
	enumSpec(EndOfLineKey, true, nil,
		func(o *Options) **EndOfLine { return &o.EndOfLine },
		EndOfLineLF, EndOfLineCRLF, EndOfLineCR, EndOfLineAuto),
	enumSpec(EmbeddedLanguageFormatKey, true, nil,
		func(o *Options) **EmbeddedLanguageFormatting { return &o.EmbeddedLanguageFormatting },
		EmbeddedAuto, EmbeddedOff),
	{
		Key: Plugins, Kind: KindList, Required: true,
		field: listField(func(o *Options) **[]string { return &o.Plugins }, toPluginList),
	},
	{
		Key: Parser, Kind: KindString,
		field: ptrField(func(o *Options) **string { return &o.Parser }, toName),
	},
	enumSpec(ProseWrapKey, false, concat(MarkParsers, []string{"yaml"}),
		func(o *Options) **ProseWrap { return &o.ProseWrap },
		ProseWrapAlways, ProseWrapNever, ProseWrapPreserve),
	enumSpec(HTMLWhitespaceKey, false, HTMLParsers,
		func(o *Options) **HTMLWhitespaceSensitivity { return &o.HTMLWhitespaceSensitivity },
		HTMLWhitespaceCSS, HTMLWhitespaceStrict, HTMLWhitespaceIgnore),
	{
		Key: VueIndentScriptAndStyle, Kind: KindBool,
		Scope: []string{"vue"},
		field: ptrField(func(o *Options) **bool { return &o.VueIndentScriptAndStyle }, toBool),
	},
	{
		Key: SingleAttributePerLine, Kind: KindBool,
		Scope: concat(JSParsers, HTMLParsers),
		field: ptrField(func(o *Options) **bool { return &o.SingleAttributePerLine }, toBool),
	},
}

var specByKey = func() map[Key]Spec {
	m := make(map[Key]Spec, len(specs))
	for _, s := range specs {
		m[s.Key] = s
	}
	return m
}()

// Specs returns the option table in canonical order.
func Specs() []Spec {
	return slices.Clone(specs)
}

// Lookup returns the spec for a document key.
func Lookup(name string) (Spec, bool) {
	s, ok := specByKey[Key(name)]
	return s, ok
}

func enumSpec[T ~string](key Key, required bool, scope []string, p func(*Options) **T, values ...T) Spec {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return Spec{
		Key:      key,
		Kind:     KindEnum,
		Values:   names,
		Required: required,
		Scope:    scope,
		field:    ptrField(p, enumOf(values)),
	}
}

func concat(groups ...[]string) []string {
	return slices.Concat(groups...)
}
