package options

import (
	"maps"
	"slices"
)

// Decode builds an Options record from a decoded document mapping. Keys are
// visited in sorted order so the first reported error is stable. A key that
// is not an option yields a KeyError wrapping ErrUnknownKey; a value of the
// wrong type or outside its enum yields one wrapping ErrInvalidValue.
func Decode(raw map[string]any) (Options, error) {
	var o Options
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		s, ok := Lookup(name)
		if !ok {
			return Options{}, &KeyError{Key: name, Err: ErrUnknownKey}
		}
		value := raw[name]
		if value == nil {
			return Options{}, &KeyError{Key: name, Err: invalid("null is not allowed")}
		}
		if err := s.field.set(&o, value); err != nil {
			return Options{}, &KeyError{Key: name, Value: value, Err: err}
		}
	}
	return o, nil
}

// Validate checks that o is a complete base configuration: every required
// option is set and every set value is within its type and enum.
func Validate(o Options) error {
	for _, s := range specs {
		if !s.field.isSet(&o) {
			if s.Required {
				return &KeyError{Key: string(s.Key), Err: ErrMissing}
			}
			continue
		}
		if err := s.field.check(&o); err != nil {
			return &KeyError{Key: string(s.Key), Value: s.field.get(&o), Err: err}
		}
	}
	return nil
}

// ValidatePartial checks only the options that are set in o.
func ValidatePartial(o Options) error {
	for _, s := range specs {
		if !s.field.isSet(&o) {
			continue
		}
		if err := s.field.check(&o); err != nil {
			return &KeyError{Key: string(s.Key), Value: s.field.get(&o), Err: err}
		}
	}
	return nil
}

// Defaults returns a complete base configuration holding the default value
// of every required option.
func Defaults() Options {
	return Options{
		PrintWidth:                 Ptr(80),
		TabWidth:                   Ptr(2),
		UseTabs:                    Ptr(false),
		Semi:                       Ptr(true),
		SingleQuote:                Ptr(false),
		JSXSingleQuote:             Ptr(false),
		QuoteProps:                 Ptr(QuotePropsAsNeeded),
		TrailingComma:              Ptr(TrailingCommaAll),
		BracketSpacing:             Ptr(true),
		BracketSameLine:            Ptr(false),
		ArrowParens:                Ptr(ArrowParensAlways),
		EndOfLine:                  Ptr(EndOfLineLF),
		EmbeddedLanguageFormatting: Ptr(EmbeddedAuto),
		Plugins:                    Ptr([]string{}),
	}
}
