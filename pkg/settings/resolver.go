package settings

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/googlelogin/pkg/logger"
)

// OptionStore persists editable settings as strings keyed by setting name.
type OptionStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}

// Field describes one setting for an admin form.
type Field struct {
	Name   string
	Value  any
	Locked bool
	EnvVar string
}

// Resolver combines constants, stored options and defaults.
type Resolver struct {
	store     OptionStore
	constants Constants
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver. A nil store behaves as an empty one.
func NewResolver(store OptionStore, constants Constants, opts ...ResolverOption) *Resolver {
	if store == nil {
		store = NewMemoryStore(nil)
	}
	r := &Resolver{
		store:     store,
		constants: constants,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load resolves every setting.
func (r *Resolver) Load(ctx context.Context) (Settings, error) {
	stored, err := r.store.Load(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return r.resolve(ctx, stored), nil
}

// Resolve returns the typed value of a single setting.
func (r *Resolver) Resolve(ctx context.Context, name string) (any, error) {
	if !slices.Contains(Names, name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArgument, name)
	}
	s, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	v, _ := s.value(name)
	return v, nil
}

// Locked reports whether a constant fixes the named setting.
func (r *Resolver) Locked(name string) bool {
	_, ok := r.constants.lookup(name)
	return ok
}

// Fields reports every setting with its resolved value and lock state.
func (r *Resolver) Fields(ctx context.Context) ([]Field, error) {
	s, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	fields := make([]Field, 0, len(Names))
	for _, name := range Names {
		v, _ := s.value(name)
		fields = append(fields, Field{
			Name:   name,
			Value:  v,
			Locked: r.Locked(name),
			EnvVar: EnvVars[name],
		})
	}
	return fields, nil
}

// Save validates and persists editable settings. Unknown names, locked
// fields and malformed values are rejected before anything is written.
func (r *Resolver) Save(ctx context.Context, values map[string]string) error {
	clean := make(map[string]string, len(values))
	for name, raw := range values {
		if !slices.Contains(Names, name) {
			return fmt.Errorf("%w: %q", ErrInvalidArgument, name)
		}
		if r.Locked(name) {
			return fmt.Errorf("%w: %s (%s)", ErrFieldLocked, name, EnvVars[name])
		}
		v, err := normalize(name, raw)
		if err != nil {
			return err
		}
		clean[name] = v
	}
	if len(clean) == 0 {
		return nil
	}
	if err := r.store.Save(ctx, clean); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return nil
}

func (r *Resolver) resolve(ctx context.Context, stored map[string]string) Settings {
	s := Defaults()
	for _, name := range Names {
		raw, ok := r.constants.lookup(name)
		if !ok {
			raw, ok = stored[name]
		}
		if !ok {
			continue
		}
		if err := s.set(name, raw); err != nil {
			r.logger.WarnContext(ctx, "ignoring malformed setting",
				logger.Component("settings"),
				slog.String("setting", name),
				logger.Error(err),
			)
		}
	}
	return s
}

func (s *Settings) set(name, raw string) error {
	switch name {
	case ClientID:
		s.ClientID = strings.TrimSpace(raw)
	case ClientSecret:
		s.ClientSecret = strings.TrimSpace(raw)
	case WhitelistedDomains:
		s.WhitelistedDomains = raw
	case RegistrationEnabled, OneTapLogin, AnyoneCanRegister:
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		switch name {
		case RegistrationEnabled:
			s.RegistrationEnabled = b
		case OneTapLogin:
			s.OneTapLogin = b
		default:
			s.AnyoneCanRegister = b
		}
	case OneTapLoginScope:
		scope, err := parseScope(raw)
		if err != nil {
			return err
		}
		s.OneTapScope = scope
	case CookieExpiry:
		hours, err := parseHours(raw)
		if err != nil {
			return err
		}
		s.CookieExpiryHours = hours
	}
	return nil
}

// normalize validates a raw value and returns its canonical stored form.
func normalize(name, raw string) (string, error) {
	var s Settings
	if err := s.set(name, raw); err != nil {
		return "", err
	}
	v, _ := s.value(name)
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case OneTapScope:
		return string(v), nil
	case string:
		return v, nil
	}
	return raw, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true, nil
	case "", "0", "false", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
}

func parseScope(raw string) (OneTapScope, error) {
	switch OneTapScope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OneTapLoginPage:
		return OneTapLoginPage, nil
	case OneTapSitewide:
		return OneTapSitewide, nil
	}
	return OneTapLoginPage, fmt.Errorf("%w: one tap scope %q", ErrInvalidValue, raw)
}

func parseHours(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCookieExpiryHours, nil
	}
	h, err := strconv.Atoi(raw)
	if err != nil || h <= 0 {
		return DefaultCookieExpiryHours, fmt.Errorf("%w: cookie expiry %q", ErrInvalidValue, raw)
	}
	return h, nil
}
