package catalog

import "fmt"

// Enum maps an attribute between the terminal vocabulary and the canonical one.
// Values the ingest side does not recognize fall back to IngestDefault so a push
// is never blocked by a value from a newer terminal.
type Enum struct {
	Canonical     []string          `yaml:"canonical"`
	Wire          []string          `yaml:"wire"`
	Ingest        map[string]string `yaml:"ingest,omitempty"` // wire -> canonical, where they differ
	Export        map[string]string `yaml:"export,omitempty"` // canonical -> wire, where they differ
	IngestDefault string            `yaml:"ingest_default"`
	ExportDefault string            `yaml:"export_default"`
}

// ToCanonical maps a wire value onto the canonical vocabulary
func (e *Enum) ToCanonical(v string) string {
	if mapped, ok := e.Ingest[v]; ok {
		return mapped
	}
	if contains(e.Canonical, v) {
		return v
	}
	return e.IngestDefault
}

// ToWire maps a canonical value onto the terminal vocabulary
func (e *Enum) ToWire(v string) string {
	if mapped, ok := e.Export[v]; ok {
		return mapped
	}
	if contains(e.Wire, v) {
		return v
	}
	return e.ExportDefault
}

// validate checks both vocabularies are closed and every wire value round-trips
func (e *Enum) validate() error {
	if !contains(e.Canonical, e.IngestDefault) {
		return fmt.Errorf("ingest default %q is not canonical", e.IngestDefault)
	}
	if !contains(e.Wire, e.ExportDefault) {
		return fmt.Errorf("export default %q is not a wire value", e.ExportDefault)
	}
	for w, c := range e.Ingest {
		if !contains(e.Canonical, c) {
			return fmt.Errorf("ingest mapping %q -> %q targets a non-canonical value", w, c)
		}
	}
	for c, w := range e.Export {
		if !contains(e.Wire, w) {
			return fmt.Errorf("export mapping %q -> %q targets a non-wire value", c, w)
		}
	}
	for _, w := range e.Wire {
		if got := e.ToWire(e.ToCanonical(w)); got != w {
			return fmt.Errorf("wire value %q does not round-trip (got %q)", w, got)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
