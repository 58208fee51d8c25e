// Package output renders directory listings in several formats (table,
// plain, json, yaml) and provides the shell's menu and prompt text.
//
// Formatters are looked up by name from a registry:
//
//	f, err := output.Get("table")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := f.Format(&buf, listing); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/jamesainslie/burrow/pkg/burrow/types"
)

// DefaultFormat is the formatter used when none is configured.
const DefaultFormat = "table"

// Row is an entry with its presentation fields computed.
type Row struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Size       int64  `json:"size" yaml:"size"`
	SizeHuman  string `json:"size_human" yaml:"size_human"`
	Attributes string `json:"attributes" yaml:"attributes"`
	Degraded   bool   `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Rows converts a listing's entries into display rows, keeping order.
func Rows(l *types.Listing) []Row {
	rows := make([]Row, 0, len(l.Entries))
	for _, e := range l.Entries {
		rows = append(rows, Row{
			Name:       e.Name,
			Type:       DetectType(e),
			Size:       e.Size,
			SizeHuman:  e.HumanSize(),
			Attributes: e.Permissions.String(),
			Degraded:   e.Degraded,
			Error:      e.Err,
		})
	}
	return rows
}

// Formatter renders a listing.
type Formatter interface {
	Format(w *bytes.Buffer, l *types.Listing) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry maps names to formatter factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available lists the default registry's formatter names.
func Available() []string {
	return DefaultRegistry.Available()
}
