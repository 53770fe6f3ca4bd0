// Package adapter parses native scanner output files into intermediate
// records. Each supported scanner gets one Adapter implementation; the
// canonical schema is produced later by the normalizer.
package adapter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

// RawRecord is the scanner-agnostic intermediate form of one check result.
// Optional fields are empty strings; adapters never fail a record for a
// missing optional field.
type RawRecord struct {
	CheckID        string
	Title          string
	Description    string
	NativeSeverity string
	NativeStatus   string
	Resource       string
	AccountID      string
	Region         string
	Compliance     []string
}

// Adapter parses one scanner's native output format.
type Adapter interface {
	// Name is the stable adapter identifier used as the finding source.
	Name() string
	// Provider is the cloud platform this adapter's findings belong to.
	Provider() models.Provider
	// Match reports whether a file name looks like this scanner's output.
	Match(filename string) bool
	// ParseFile parses one output file. Malformed individual records are
	// skipped and counted; a structurally unreadable file returns a
	// *ParseError.
	ParseFile(path string) (records []RawRecord, skipped int, err error)
}

// Registry holds the known adapters keyed by name.
type Registry struct {
	adapters map[string]Adapter
	mu       sync.RWMutex
}

// NewRegistry creates a registry with the built-in adapters registered.
func NewRegistry(log logger.Logger) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.MustRegister(NewProwlerAdapterWithLogger(log))
	r.MustRegister(NewScoutSuiteAdapterWithLogger(log))
	return r
}

// Register adds an adapter to the registry.
func (r *Registry) Register(a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[a.Name()]; exists {
		return fmt.Errorf("adapter %q: %w", a.Name(), ErrDuplicateAdapter)
	}
	r.adapters[a.Name()] = a
	return nil
}

// MustRegister is Register that panics on conflict, for use at startup.
func (r *Registry) MustRegister(a Adapter) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

// Get returns the adapter with the given name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("adapter %q: %w", name, ErrUnknownAdapter)
	}
	return a, nil
}

// Names returns the registered adapter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
