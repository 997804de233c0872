package console

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Locale identifies a supported UI language.
type Locale string

// Supported locales. The set is closed; anything else is rejected.
const (
	LocaleEnglish Locale = "en"
	LocaleHebrew  Locale = "he"
)

// DefaultLocale is used when neither a stored preference nor the browser
// language resolves to a supported locale.
const DefaultLocale = LocaleEnglish

// LocaleStorageKey names the durable client-side slot (cookie) the web tier
// persists the preference under.
const LocaleStorageKey = "admin_locale"

// Direction is a writing direction attribute value.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// ErrUnsupportedLocale is returned when SetLocale receives a value outside
// the supported set. The current locale is left unchanged.
var ErrUnsupportedLocale = errors.New("console: unsupported locale")

// Direction returns the writing direction for the locale. Direction is a
// pure function of locale and is never set independently.
func (l Locale) Direction() Direction {
	if l == LocaleHebrew {
		return DirectionRTL
	}
	return DirectionLTR
}

// String implements fmt.Stringer.
func (l Locale) String() string { return string(l) }

// ParseLocale validates a raw value against the supported set.
func ParseLocale(raw string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocaleEnglish:
		return LocaleEnglish, true
	case LocaleHebrew:
		return LocaleHebrew, true
	}
	return "", false
}

// DetectLocale derives a supported locale from an Accept-Language header,
// falling back to DefaultLocale. Only the base language of each token is
// considered ("he-IL" matches Hebrew).
func DetectLocale(acceptLanguage string) Locale {
	for _, token := range strings.Split(acceptLanguage, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if idx := strings.Index(token, "-"); idx > 0 {
			token = token[:idx]
		}
		if locale, ok := ParseLocale(token); ok {
			return locale
		}
	}
	return DefaultLocale
}

// LocalePreferenceStore persists locale preferences per viewer.
type LocalePreferenceStore interface {
	Locale(ctx context.Context, viewer ViewerContext) (Locale, bool, error)
	SaveLocale(ctx context.Context, viewer ViewerContext, locale Locale) error
}

// DocumentSink receives locale changes so the host document can update its
// lang/dir attributes. The web tier implements this with cookies + template
// attributes; tests use a recording sink.
type DocumentSink interface {
	ApplyLocale(locale Locale, direction Direction)
}

type noopDocumentSink struct{}

func (noopDocumentSink) ApplyLocale(Locale, Direction) {}

// LocaleManagerOptions configures a LocaleManager. Zero-value fields get
// safe defaults.
type LocaleManagerOptions struct {
	Store    LocalePreferenceStore
	Sink     DocumentSink
	Fallback Locale
}

// LocaleManager owns the process-wide current locale. All reads flow
// through it so the render tree stays consistent; writes happen only via
// SetLocale.
type LocaleManager struct {
	mu       sync.RWMutex
	store    LocalePreferenceStore
	sink     DocumentSink
	fallback Locale
	current  Locale
}

// NewLocaleManager builds a manager with safe defaults.
func NewLocaleManager(opts LocaleManagerOptions) *LocaleManager {
	if opts.Store == nil {
		opts.Store = NewInMemoryLocaleStore()
	}
	if opts.Sink == nil {
		opts.Sink = noopDocumentSink{}
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultLocale
	}
	return &LocaleManager{
		store:    opts.Store,
		sink:     opts.Sink,
		fallback: opts.Fallback,
		current:  opts.Fallback,
	}
}

// Resolve initializes the current locale for a viewer: stored preference
// first, then browser language, then the fallback. The document sink is
// applied with the resolved value.
func (m *LocaleManager) Resolve(ctx context.Context, viewer ViewerContext, acceptLanguage string) Locale {
	locale := m.fallback
	if stored, ok, err := m.store.Locale(ctx, viewer); err == nil && ok {
		locale = stored
	} else if detected := DetectLocale(acceptLanguage); detected != "" {
		locale = detected
	}
	m.mu.Lock()
	m.current = locale
	m.mu.Unlock()
	m.sink.ApplyLocale(locale, locale.Direction())
	return locale
}

// SetLocale validates the value, persists it, updates the in-memory state,
// and pushes the lang/dir pair to the document sink. Invalid values leave
// every piece of state untouched.
func (m *LocaleManager) SetLocale(ctx context.Context, viewer ViewerContext, raw string) (Locale, error) {
	locale, ok := ParseLocale(raw)
	if !ok {
		return "", ErrUnsupportedLocale
	}
	if err := m.store.SaveLocale(ctx, viewer, locale); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.current = locale
	m.mu.Unlock()
	m.sink.ApplyLocale(locale, locale.Direction())
	return locale, nil
}

// Current returns the active locale.
func (m *LocaleManager) Current() Locale {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Direction returns the active writing direction.
func (m *LocaleManager) Direction() Direction {
	return m.Current().Direction()
}

// InMemoryLocaleStore is a concurrency-safe default preference store.
type InMemoryLocaleStore struct {
	mu   sync.RWMutex
	data map[string]Locale
}

// NewInMemoryLocaleStore creates an empty store.
func NewInMemoryLocaleStore() *InMemoryLocaleStore {
	return &InMemoryLocaleStore{data: make(map[string]Locale)}
}

// Locale returns the stored preference for a viewer, if any.
func (s *InMemoryLocaleStore) Locale(_ context.Context, viewer ViewerContext) (Locale, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	locale, ok := s.data[s.key(viewer)]
	return locale, ok, nil
}

// SaveLocale persists the preference for a viewer.
func (s *InMemoryLocaleStore) SaveLocale(_ context.Context, viewer ViewerContext, locale Locale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(viewer)] = locale
	return nil
}

func (s *InMemoryLocaleStore) key(viewer ViewerContext) string {
	if viewer.Tenant == "" {
		return viewer.UserID
	}
	return viewer.UserID + "::" + viewer.Tenant
}
