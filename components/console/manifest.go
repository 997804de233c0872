package console

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// TenantManifestDocument models a YAML/JSON manifest describing the tenants
// the console serves and the schema their settings must satisfy.
type TenantManifestDocument struct {
	Version        string         `json:"version" yaml:"version"`
	Name           string         `json:"name,omitempty" yaml:"name,omitempty"`
	Tenants        []TenantEntry  `json:"tenants" yaml:"tenants"`
	SettingsSchema map[string]any `json:"settings_schema,omitempty" yaml:"settings_schema,omitempty"`
	Source         string         `json:"-" yaml:"-"`
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*TenantManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("console: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("console: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*TenantManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc TenantManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("console: manifest is empty")
		}
		return nil, fmt.Errorf("console: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *TenantManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("console: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Tenants))
	for idx, entry := range doc.Tenants {
		if entry.ID == "" {
			return fmt.Errorf("console: manifest tenant at index %d is missing id", idx)
		}
		if entry.Name == "" {
			return fmt.Errorf("console: manifest tenant %s missing name", entry.ID)
		}
		if entry.DefaultLocale != "" {
			if _, ok := ParseLocale(entry.DefaultLocale); !ok {
				return fmt.Errorf("console: manifest tenant %s has unsupported locale %q", entry.ID, entry.DefaultLocale)
			}
		}
		if _, exists := seen[entry.ID]; exists {
			return fmt.Errorf("console: manifest duplicates tenant id %s", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

func (doc *TenantManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
