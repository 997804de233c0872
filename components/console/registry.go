package console

import (
	"fmt"
	"sort"
	"sync"
)

// TenantEntry describes one tenant the console can serve: its URL slug,
// display name, defaults, and free-form settings validated against the
// manifest's settings schema.
type TenantEntry struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	DefaultLocale string         `json:"default_locale,omitempty" yaml:"default_locale,omitempty"`
	Theme         string         `json:"theme,omitempty" yaml:"theme,omitempty"`
	Channels      []string       `json:"channels,omitempty" yaml:"channels,omitempty"`
	Settings      map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// TenantHook lets packages register tenants during init().
type TenantHook func(reg *TenantRegistry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []TenantHook
)

// RegisterTenantHook registers a hook executed against new registries.
func RegisterTenantHook(h TenantHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// TenantRegistry is the authoritative set of tenants. Every request path
// begins with a lookup here; unknown slugs never reach the backend.
type TenantRegistry struct {
	mu        sync.RWMutex
	tenants   map[string]TenantEntry
	validator *JSONSchemaValidator
	schema    map[string]any
}

// NewTenantRegistry builds an empty registry and applies global hooks.
func NewTenantRegistry() *TenantRegistry {
	reg := &TenantRegistry{
		tenants:   map[string]TenantEntry{},
		validator: NewJSONSchemaValidator(),
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered tenant hooks.
func (r *TenantRegistry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTenant stores a tenant entry, validating its settings against the
// registry's schema when one is loaded.
func (r *TenantRegistry) RegisterTenant(entry TenantEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("console: tenant id is required")
	}
	r.mu.Lock()
	schema := r.schema
	r.mu.Unlock()
	if schema != nil {
		if err := r.validator.Validate(entry.ID, schema, entry.Settings); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[entry.ID] = entry
	return nil
}

// Tenant fetches a tenant entry by slug.
func (r *TenantRegistry) Tenant(id string) (TenantEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tenants[id]
	return entry, ok
}

// Tenants returns all registered tenants sorted by slug.
func (r *TenantRegistry) Tenants() []TenantEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]TenantEntry, 0, len(r.tenants))
	for _, entry := range r.tenants {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// LoadManifestFile reads a manifest from disk, registers its tenants, and
// returns the document.
func (r *TenantRegistry) LoadManifestFile(path string) (*TenantManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers tenants from a decoded manifest.
func (r *TenantRegistry) LoadManifestDocument(doc *TenantManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("console: manifest document is nil")
	}
	r.mu.Lock()
	r.schema = doc.SettingsSchema
	r.mu.Unlock()
	for _, entry := range doc.Tenants {
		if err := r.RegisterTenant(entry); err != nil {
			return fmt.Errorf("console: register tenant %s from %s: %w", entry.ID, doc.Source, err)
		}
	}
	return nil
}
