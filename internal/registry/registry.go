// Package registry provides a global registry for calendar layout factories.
// Layouts register themselves in init() functions, allowing the CLI
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/calbreak/internal/calendar"
)

// Factory builds a fresh calendar page. The same seed must produce the
// same page.
type Factory func(seed int64) *calendar.Document

// LayoutInfo contains metadata about a registered layout.
type LayoutInfo struct {
	ID          string
	Title       string
	Description string
}

type entry struct {
	info    LayoutInfo
	factory Factory
}

var (
	layouts = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a layout factory to the registry.
// Typically called from an init() function.
// Panics if a layout with the same ID is already registered.
func Register(info LayoutInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if info.ID == "" {
		panic("registry: layout with empty id")
	}
	if _, exists := layouts[info.ID]; exists {
		panic(fmt.Sprintf("registry: layout %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}
	layouts[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered layouts, sorted by ID.
func List() []LayoutInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LayoutInfo, 0, len(layouts))
	for _, e := range layouts {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a layout by its ID.
// Returns an error if the layout ID is not registered.
func Create(id string, seed int64) (*calendar.Document, error) {
	mu.RLock()
	e, ok := layouts[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown layout %q", id)
	}
	return e.factory(seed), nil
}

// Exists checks if a layout with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := layouts[id]
	return ok
}
