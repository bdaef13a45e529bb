package pass

import (
	"fmt"
	"sort"
	"sync"
)

// PluginAPIVersion is the plugin interface major version. A plugin
// declaring a different version fails registration rather than
// misbehaving at run time.
const PluginAPIVersion = 1

// PluginInfo identifies a pass plugin. The host reports it verbatim in
// pass listings; Name is the human-readable plugin name, not the
// pipeline identifier.
type PluginInfo struct {
	APIVersion int
	Name       string
	Version    string
}

// Factory constructs a pass instance from options. Called once per
// pipeline element during parsing.
type Factory func(opts Options) FunctionPass

// Registry maps pipeline identifiers to pass factories. Lookup is by
// exact string match.
//
// Registration happens at process-wide init time; lookups happen on
// every pipeline parse. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	infos     map[string]PluginInfo
}

// NewRegistry creates an empty registry. Most callers want
// DefaultRegistry, which pass packages populate from init.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		infos:     make(map[string]PluginInfo),
	}
}

// Register adds a pass factory under its pipeline identifier.
//
// Registration fails on an empty identifier, a nil factory, a plugin
// API version mismatch, or a duplicate identifier. Identifiers are
// never overwritten: first registration wins and the second errors.
func (r *Registry) Register(info PluginInfo, name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("pass registry: empty pipeline identifier")
	}
	if factory == nil {
		return fmt.Errorf("pass registry: nil factory for %q", name)
	}
	if info.APIVersion != PluginAPIVersion {
		return fmt.Errorf("pass registry: plugin %q declares API version %d, host requires %d",
			info.Name, info.APIVersion, PluginAPIVersion)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("pass registry: duplicate pipeline identifier %q", name)
	}
	r.factories[name] = factory
	r.infos[name] = info
	return nil
}

// Lookup returns the factory registered under name. The second return
// is false when no pass is registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Info returns the plugin metadata registered under name.
func (r *Registry) Info(name string) (PluginInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[name]
	return info, ok
}

// Names returns registered pipeline identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// MustRegister registers into the default registry and panics on error.
// Intended for pass package init functions, where a failed registration
// is a programming error.
func MustRegister(info PluginInfo, name string, factory Factory) {
	if err := defaultRegistry.Register(info, name, factory); err != nil {
		panic(err)
	}
}
