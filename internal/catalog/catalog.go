package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Kind is the canonical type of an attribute
type Kind string

const (
	KindString  Kind = "string"
	KindText    Kind = "text"
	KindInt     Kind = "int"
	KindDecimal Kind = "decimal"
	KindBool    Kind = "bool"
	KindTime    Kind = "time"
	KindRef     Kind = "ref"  // identity of another entity type
	KindBlob    Kind = "blob" // serialized list/structure, opaque to sync
)

// WatermarkMode defines when the watermark attribute is stamped
type WatermarkMode string

const (
	WatermarkOnUpdate WatermarkMode = "on_update" // every upsert
	WatermarkOnCreate WatermarkMode = "on_create" // insert only
)

// Attribute describes one column of an entity type
type Attribute struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
	Kind   Kind   `yaml:"kind"`
	Ref    string `yaml:"ref,omitempty"`

	// Internal attributes are accepted on ingest but never exported
	Internal bool `yaml:"internal,omitempty"`
	// Fold trims and case-folds string values on ingest
	Fold bool `yaml:"fold,omitempty"`

	Enum *Enum `yaml:"enum,omitempty"`
}

// WireKey is the key used for the attribute on the wire.
// Foreign keys always carry an explicit _id suffix.
func (a Attribute) WireKey() string {
	if a.Kind == KindRef && !strings.HasSuffix(a.Name, "_id") {
		return a.Name + "_id"
	}
	return a.Name
}

// EntitySchema is the static description of one syncable entity type
type EntitySchema struct {
	Name          string        `yaml:"name"`
	Table         string        `yaml:"table"`
	Attributes    []Attribute   `yaml:"attributes"`
	Identity      string        `yaml:"identity"`
	StoreScope    string        `yaml:"store_scope,omitempty"` // empty: scoped by identity
	Watermark     string        `yaml:"watermark"`
	WatermarkMode WatermarkMode `yaml:"watermark_mode"`
	AlternateKey  string        `yaml:"alternate_key,omitempty"`

	index map[string]int
}

// Attribute looks up an attribute by canonical name
func (s *EntitySchema) Attribute(name string) (Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return Attribute{}, false
	}
	return s.Attributes[i], true
}

// Column returns the storage column for a canonical attribute name
func (s *EntitySchema) Column(name string) string {
	if a, ok := s.Attribute(name); ok {
		return a.Column
	}
	return name
}

// References returns the distinct entity types this type points at, self excluded
func (s *EntitySchema) References() []string {
	seen := make(map[string]bool)
	refs := make([]string, 0)
	for _, a := range s.Attributes {
		if a.Kind != KindRef || a.Ref == s.Name || seen[a.Ref] {
			continue
		}
		seen[a.Ref] = true
		refs = append(refs, a.Ref)
	}
	return refs
}

// SelfReferences returns attributes pointing back at the same entity type
func (s *EntitySchema) SelfReferences() []Attribute {
	var out []Attribute
	for _, a := range s.Attributes {
		if a.Kind == KindRef && a.Ref == s.Name {
			out = append(out, a)
		}
	}
	return out
}

// Catalog is the immutable registry of syncable entity types.
// It is built once at startup and shared by reference.
type Catalog struct {
	schemas  map[string]*EntitySchema
	order    []string
	declared []string
}

// New validates the schemas and computes the dependency order.
// Any inconsistency, including a reference cycle, is a ConfigurationError.
func New(schemas ...EntitySchema) (*Catalog, error) {
	c := &Catalog{
		schemas: make(map[string]*EntitySchema, len(schemas)),
	}

	for i := range schemas {
		s := schemas[i]
		s.Attributes = append([]Attribute(nil), s.Attributes...)
		if s.Name == "" {
			return nil, configErrorf("", "entity type at position %d has no name", i)
		}
		if _, dup := c.schemas[s.Name]; dup {
			return nil, configErrorf(s.Name, "declared twice")
		}
		if err := s.build(); err != nil {
			return nil, err
		}
		c.schemas[s.Name] = &s
		c.declared = append(c.declared, s.Name)
	}

	for _, name := range c.declared {
		s := c.schemas[name]
		for _, ref := range s.References() {
			if _, ok := c.schemas[ref]; !ok {
				return nil, configErrorf(name, "references unknown entity type %q", ref)
			}
		}
	}

	order, err := c.topologicalOrder()
	if err != nil {
		return nil, err
	}
	c.order = order

	return c, nil
}

// build indexes attributes and checks the designated attributes exist
func (s *EntitySchema) build() error {
	s.index = make(map[string]int, len(s.Attributes))
	for i, a := range s.Attributes {
		if a.Name == "" {
			return configErrorf(s.Name, "attribute at position %d has no name", i)
		}
		if _, dup := s.index[a.Name]; dup {
			return configErrorf(s.Name, "attribute %q declared twice", a.Name)
		}
		if a.Kind == KindRef && a.Ref == "" {
			return configErrorf(s.Name, "reference attribute %q has no target", a.Name)
		}
		if a.Column == "" {
			s.Attributes[i].Column = defaultColumn(a)
		}
		if a.Enum != nil {
			if err := a.Enum.validate(); err != nil {
				return configErrorf(s.Name, "attribute %q: %v", a.Name, err)
			}
		}
		s.index[a.Name] = i
	}

	if s.Table == "" {
		s.Table = s.Name
	}
	if s.WatermarkMode == "" {
		s.WatermarkMode = WatermarkOnUpdate
	}

	if a, ok := s.Attribute(s.Identity); !ok || a.Kind != KindString {
		return configErrorf(s.Name, "identity attribute %q must be a declared string attribute", s.Identity)
	}
	if a, ok := s.Attribute(s.Watermark); !ok || a.Kind != KindTime {
		return configErrorf(s.Name, "watermark attribute %q must be a declared time attribute", s.Watermark)
	}
	if s.StoreScope != "" {
		if a, ok := s.Attribute(s.StoreScope); !ok || a.Kind != KindRef {
			return configErrorf(s.Name, "store scope %q must be a declared reference", s.StoreScope)
		}
	}
	if s.AlternateKey != "" {
		if _, ok := s.Attribute(s.AlternateKey); !ok {
			return configErrorf(s.Name, "alternate key %q is not declared", s.AlternateKey)
		}
	}
	return nil
}

func defaultColumn(a Attribute) string {
	if a.Kind == KindRef && !strings.HasSuffix(a.Name, "_id") {
		return a.Name + "_id"
	}
	return a.Name
}

// topologicalOrder runs Kahn's algorithm, breaking ties by declaration order
func (c *Catalog) topologicalOrder() ([]string, error) {
	position := make(map[string]int, len(c.declared))
	for i, name := range c.declared {
		position[name] = i
	}

	indegree := make(map[string]int, len(c.declared))
	dependents := make(map[string][]string, len(c.declared))
	for _, name := range c.declared {
		refs := c.schemas[name].References()
		indegree[name] = len(refs)
		for _, ref := range refs {
			dependents[ref] = append(dependents[ref], name)
		}
	}

	ready := make([]string, 0)
	for _, name := range c.declared {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(c.declared))
	for len(ready) > 0 {
		sort.SliceStable(ready, func(i, j int) bool {
			return position[ready[i]] < position[ready[j]]
		})
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(c.declared) {
		stuck := make([]string, 0)
		for _, name := range c.declared {
			if indegree[name] > 0 {
				stuck = append(stuck, name)
			}
		}
		return nil, configErrorf("", "dependency cycle between %s", strings.Join(stuck, ", "))
	}
	return order, nil
}

// Resolve returns the schema for a type name
func (c *Catalog) Resolve(typeName string) (*EntitySchema, error) {
	s, ok := c.schemas[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return s, nil
}

// DependencyOrder returns every type name such that referenced types come first
func (c *Catalog) DependencyOrder() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Types returns type names in declaration order
func (c *Catalog) Types() []string {
	out := make([]string, len(c.declared))
	copy(out, c.declared)
	return out
}

// Predicate restricts a query to one store partition
type Predicate struct {
	Column string
	Value  string
}

// Scope adapts the predicate for db.Scopes
func (p Predicate) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s = ?", p.Column), p.Value)
	}
}

// ScopeFilter matches the store entity by identity and every other type by its store scope
func (c *Catalog) ScopeFilter(typeName, storeID string) (Predicate, error) {
	s, err := c.Resolve(typeName)
	if err != nil {
		return Predicate{}, err
	}
	if s.StoreScope == "" {
		return Predicate{Column: s.Column(s.Identity), Value: storeID}, nil
	}
	return Predicate{Column: s.Column(s.StoreScope), Value: storeID}, nil
}
