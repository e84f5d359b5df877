package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
)

// Registry indexes plugins by id and by engine, preserving declaration order.
type Registry struct {
	mu       sync.RWMutex
	ordered  []Plugin
	byID     map[string]Plugin
	byEngine map[dbcapabilities.DatabaseID][]Plugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]Plugin),
		byEngine: make(map[dbcapabilities.DatabaseID][]Plugin),
	}
}

// Register adds a plugin. Ids are unique; registering one twice fails.
func (r *Registry) Register(p Plugin) error {
	desc := p.Descriptor()
	if err := desc.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[desc.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, desc.ID)
	}
	r.ordered = append(r.ordered, p)
	r.byID[desc.ID] = p
	r.byEngine[desc.Engine] = append(r.byEngine[desc.Engine], p)
	return nil
}

// MustRegister is Register for init() code paths.
func (r *Registry) MustRegister(p Plugin) {
	if err := r.Register(p); err != nil {
		panic("plugin: " + err.Error())
	}
}

// EngineCode canonicalizes an engine code or alias. Codes unknown to the
// capability manifest are lower-cased.
func EngineCode(code string) dbcapabilities.DatabaseID {
	if id, ok := dbcapabilities.ParseID(code); ok {
		return id
	}
	return dbcapabilities.DatabaseID(strings.ToLower(strings.TrimSpace(code)))
}

// Resolve returns every plugin serving engineCode in declaration order. An
// unknown engine yields an empty slice; deciding whether that is fatal is
// the caller's business.
func (r *Registry) Resolve(engineCode string) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.byEngine[EngineCode(engineCode)]
	out := make([]Plugin, len(matches))
	copy(out, matches)
	return out
}

// Get retrieves a plugin by id.
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return nil, NewNotFoundError("plugin", id)
	}
	return p, nil
}

// List returns all plugins in declaration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plugin, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Engines returns the engines with at least one plugin, sorted.
func (r *Registry) Engines() []dbcapabilities.DatabaseID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dbcapabilities.DatabaseID, 0, len(r.byEngine))
	for id := range r.byEngine {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Unregister removes a plugin by id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	r.ordered = without(r.ordered, p)
	engine := p.Descriptor().Engine
	r.byEngine[engine] = without(r.byEngine[engine], p)
	if len(r.byEngine[engine]) == 0 {
		delete(r.byEngine, engine)
	}
}

func without(list []Plugin, p Plugin) []Plugin {
	out := make([]Plugin, 0, len(list))
	for _, q := range list {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}

// SelectBand returns the first candidate whose version band covers
// engineVersion.
func SelectBand(candidates []Plugin, engineVersion string) (Plugin, bool) {
	for _, p := range candidates {
		if p.Descriptor().Covers(engineVersion) {
			return p, true
		}
	}
	return nil, false
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry engine packages register into.
func Default() *Registry {
	return defaultRegistry
}

// Register adds p to the default registry and panics on error.
func Register(p Plugin) {
	defaultRegistry.MustRegister(p)
}

// Resolve resolves engineCode against the default registry.
func Resolve(engineCode string) []Plugin {
	return defaultRegistry.Resolve(engineCode)
}
