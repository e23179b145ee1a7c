package options

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var (
	// ErrUnknownKey is wrapped by KeyError when a key is not an option.
	ErrUnknownKey = errors.New("unknown option")
	// ErrInvalidValue is wrapped by KeyError when a value has the wrong type
	// or lies outside the allowed values.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMissing is wrapped by KeyError when a required option is unset.
	ErrMissing = errors.New("missing required option")
)

// KeyError reports a problem with a single option.
type KeyError struct {
	Key   string
	Value any
	Err   error
}

func (e *KeyError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Key, e.Err, e.Value)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// field binds a spec to its Options struct field.
type field struct {
	isSet func(o *Options) bool
	get   func(o *Options) any
	set   func(o *Options, raw any) error
	check func(o *Options) error
	copy  func(dst, src *Options)
	clear func(o *Options)
}

func ptrField[T any](p func(*Options) **T, conv func(any) (T, error)) field {
	return field{
		isSet: func(o *Options) bool { return *p(o) != nil },
		get:   func(o *Options) any { return **p(o) },
		set: func(o *Options, raw any) error {
			v, err := conv(raw)
			if err != nil {
				return err
			}
			*p(o) = &v
			return nil
		},
		check: func(o *Options) error {
			_, err := conv(**p(o))
			return err
		},
		copy: func(dst, src *Options) {
			v := **p(src)
			*p(dst) = &v
		},
		clear: func(o *Options) { *p(o) = nil },
	}
}

func listField(p func(*Options) **[]string, conv func(any) ([]string, error)) field {
	f := ptrField(p, conv)
	f.get = func(o *Options) any { return slices.Clone(**p(o)) }
	f.copy = func(dst, src *Options) {
		v := slices.Clone(**p(src))
		if v == nil {
			v = []string{}
		}
		*p(dst) = &v
	}
	return f
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

// toInt accepts the integer shapes produced by the YAML, TOML and JSON
// decoders. Floats are accepted only when they hold a whole number.
func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, invalid("integer out of range")
		}
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, invalid("integer out of range")
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v > math.MaxInt {
			return 0, invalid("want integer")
		}
		return int(v), nil
	default:
		return 0, invalid("want integer, got %T", raw)
	}
}

func positiveInt(raw any) (int, error) {
	n, err := toInt(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, invalid("must be greater than 0")
	}
	return n, nil
}

func toBool(raw any) (bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return false, invalid("want boolean, got %T", raw)
	}
	return b, nil
}

func toName(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", invalid("want string, got %T", raw)
	}
	if strings.TrimSpace(s) == "" {
		return "", invalid("must not be empty")
	}
	return s, nil
}

func enumOf[T ~string](values []T) func(any) (T, error) {
	return func(raw any) (T, error) {
		var s string
		switch v := raw.(type) {
		case T:
			s = string(v)
		case string:
			s = v
		default:
			return "", invalid("want string, got %T", raw)
		}
		if !slices.Contains(values, T(s)) {
			return "", invalid("must be one of %s", joinValues(values))
		}
		return T(s), nil
	}
}

// toPluginList accepts a []string or a decoded []any of strings. Plugin ids
// must be non-empty and unique.
func toPluginList(raw any) ([]string, error) {
	var ids []string
	switch v := raw.(type) {
	case []string:
		ids = slices.Clone(v)
	case []any:
		ids = make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalid("plugin %d: want string, got %T", i, item)
			}
			ids = append(ids, s)
		}
	default:
		return nil, invalid("want list of strings, got %T", raw)
	}
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, invalid("plugin %d: empty id", i)
		}
		if seen[id] {
			return nil, invalid("plugin %q listed twice", id)
		}
		seen[id] = true
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
