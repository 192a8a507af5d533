package reactive

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SetterCase controls how the state name is joined to the setter prefix.
type SetterCase string

const (
	// SetterVerbatim appends the state name unchanged: count -> setcount.
	SetterVerbatim SetterCase = "verbatim"
	// SetterCapitalize upper-cases the first rune: count -> setCount.
	SetterCapitalize SetterCase = "capitalize"
)

// Options configures the rewriter. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Module is the module the state primitive is imported from.
	Module string
	// Export is the named export of Module that creates state.
	Export string
	// Namespace is the only object accepted in member-expression hook names,
	// as in React.useFoo.
	Namespace    string
	SetterPrefix string
	SetterCase   SetterCase
	// UIDHint seeds the updater parameter names: _unique, _unique2, ...
	UIDHint string
	Logger  *slog.Logger
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Module:       "react",
		Export:       "useState",
		Namespace:    "React",
		SetterPrefix: "set",
		SetterCase:   SetterVerbatim,
		UIDHint:      "unique",
		Logger:       slog.New(slog.DiscardHandler),
	}
}

// WithRuntime sets the module and export of the state primitive.
func WithRuntime(module, export string) Option {
	return func(o *Options) {
		if module != "" {
			o.Module = module
		}
		if export != "" {
			o.Export = export
		}
	}
}

// WithNamespace sets the namespace accepted for member-expression hooks.
func WithNamespace(ns string) Option {
	return func(o *Options) {
		if ns != "" {
			o.Namespace = ns
		}
	}
}

// WithSetterPrefix sets the prefix of generated setter names.
func WithSetterPrefix(prefix string) Option {
	return func(o *Options) {
		if prefix != "" {
			o.SetterPrefix = prefix
		}
	}
}

// WithSetterCase sets how setter names are cased.
func WithSetterCase(c SetterCase) Option {
	return func(o *Options) {
		if c != "" {
			o.SetterCase = c
		}
	}
}

// WithUIDHint sets the hint for generated updater parameters.
func WithUIDHint(hint string) Option {
	return func(o *Options) {
		if hint != "" {
			o.UIDHint = hint
		}
	}
}

// WithLogger sets the logger for rewrite diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// SetterName returns the setter paired with a state name.
func (o Options) SetterName(name string) string {
	if o.SetterCase == SetterCapitalize {
		r, size := utf8.DecodeRuneInString(name)
		name = string(unicode.ToUpper(r)) + name[size:]
	}
	return o.SetterPrefix + name
}

// LogValue implements slog.LogValuer.
func (o Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("runtime", o.Module+"."+o.Export),
		slog.String("namespace", o.Namespace),
		slog.String("setter", strings.TrimSpace(o.SetterPrefix+" "+string(o.SetterCase))),
		slog.String("uid_hint", o.UIDHint),
	)
}
